package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

// LineItemRepo persistencia de las cuatro clases de línea. Ítems de orden y
// modificadores se eliminan con tombstone; las demás con DELETE.
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

const (
	invoiceItemColumns       = `id, restaurant_id, invoice_id, product_id, unit_price, quantity, line_total, expiry_date, batch_number, created_at, updated_at`
	orderItemColumns         = `id, restaurant_id, order_id, dish_id, notes, unit_price, quantity, line_total, created_at, updated_at, deleted_at`
	modifierColumns          = `id, restaurant_id, order_id, order_item_id, modifier_id, unit_price, quantity, line_total, created_at, updated_at, deleted_at`
	deliveryOrderItemColumns = `id, restaurant_id, delivery_order_id, dish_id, name, modifiers, unit_price, quantity, line_total, created_at, updated_at`
)

// Create inserta la línea según su tipo concreto.
func (r *LineItemRepo) Create(ctx context.Context, item entity.LineItem) error {
	var err error
	switch it := item.(type) {
	case *entity.InvoiceItem:
		_, err = r.q.Exec(ctx, `
			INSERT INTO invoice_items (`+invoiceItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, it.RestaurantID, it.InvoiceID, it.ProductID, it.UnitPrice, it.Quantity, it.LineTotal,
			it.ExpiryDate, nullIfEmpty(it.BatchNumber), it.CreatedAt, it.UpdatedAt)
	case *entity.OrderItem:
		_, err = r.q.Exec(ctx, `
			INSERT INTO order_items (`+orderItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL)`,
			it.ID, it.RestaurantID, it.OrderID, it.DishID, nullIfEmpty(it.Notes), it.UnitPrice, it.Quantity, it.LineTotal,
			it.CreatedAt, it.UpdatedAt)
	case *entity.OrderItemModifier:
		_, err = r.q.Exec(ctx, `
			INSERT INTO order_item_modifiers (`+modifierColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL)`,
			it.ID, it.RestaurantID, it.OrderID, it.OrderItemID, it.ModifierID, it.UnitPrice, it.Quantity, it.LineTotal,
			it.CreatedAt, it.UpdatedAt)
	case *entity.DeliveryOrderItem:
		mods, merr := json.Marshal(modifiersOrEmpty(it.Modifiers))
		if merr != nil {
			return fmt.Errorf("encode modifiers: %w", merr)
		}
		_, err = r.q.Exec(ctx, `
			INSERT INTO delivery_order_items (`+deliveryOrderItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, it.RestaurantID, it.DeliveryOrderID, it.DishID, it.Name, mods, it.UnitPrice, it.Quantity, it.LineTotal,
			it.CreatedAt, it.UpdatedAt)
	default:
		return domain.ErrInvalidInput
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrStaleAggregate
		}
		if isNumericOverflow(err) {
			return fmt.Errorf("%w: insert %s: %v", domain.ErrInvalidInput, item.Kind(), err)
		}
		return fmt.Errorf("insert %s: %w", item.Kind(), err)
	}
	return nil
}

// Update persiste precio, cantidad y line_total.
func (r *LineItemRepo) Update(ctx context.Context, item entity.LineItem, at time.Time) error {
	table, live, err := lineTable(item.Kind())
	if err != nil {
		return err
	}
	p := item.Pricing()
	query := `UPDATE ` + table + ` SET unit_price = $3, quantity = $4, line_total = $5, updated_at = $6
		WHERE restaurant_id = $1 AND id = $2` + live
	tag, err := r.q.Exec(ctx, query, item.Restaurant(), item.LineID(), p.UnitPrice, p.Quantity, p.LineTotal, at)
	if err != nil {
		if isNumericOverflow(err) {
			return fmt.Errorf("%w: update %s: %v", domain.ErrInvalidInput, item.Kind(), err)
		}
		return fmt.Errorf("update %s: %w", item.Kind(), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get obtiene una línea viva por tipo e ID.
func (r *LineItemRepo) Get(ctx context.Context, restaurantID string, kind entity.LineKind, id string) (entity.LineItem, error) {
	var (
		item entity.LineItem
		err  error
	)
	switch kind {
	case entity.LineInvoiceItem:
		item, err = scanInvoiceItem(r.q.QueryRow(ctx,
			`SELECT `+invoiceItemColumns+` FROM invoice_items WHERE restaurant_id = $1 AND id = $2`, restaurantID, id))
	case entity.LineOrderItem:
		item, err = scanOrderItem(r.q.QueryRow(ctx,
			`SELECT `+orderItemColumns+` FROM order_items WHERE restaurant_id = $1 AND id = $2 AND deleted_at IS NULL`, restaurantID, id))
	case entity.LineOrderItemModifier:
		item, err = scanModifier(r.q.QueryRow(ctx,
			`SELECT `+modifierColumns+` FROM order_item_modifiers WHERE restaurant_id = $1 AND id = $2 AND deleted_at IS NULL`, restaurantID, id))
	case entity.LineDeliveryOrderItem:
		item, err = scanDeliveryOrderItem(r.q.QueryRow(ctx,
			`SELECT `+deliveryOrderItemColumns+` FROM delivery_order_items WHERE restaurant_id = $1 AND id = $2`, restaurantID, id))
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return item, nil
}

// Delete elimina la línea. El tombstone de un ítem de orden se extiende a sus modificadores.
func (r *LineItemRepo) Delete(ctx context.Context, restaurantID string, kind entity.LineKind, id string) error {
	var query string
	switch kind {
	case entity.LineInvoiceItem:
		query = `DELETE FROM invoice_items WHERE restaurant_id = $1 AND id = $2`
	case entity.LineDeliveryOrderItem:
		query = `DELETE FROM delivery_order_items WHERE restaurant_id = $1 AND id = $2`
	case entity.LineOrderItemModifier:
		query = `UPDATE order_item_modifiers SET deleted_at = now(), updated_at = now()
			WHERE restaurant_id = $1 AND id = $2 AND deleted_at IS NULL`
	case entity.LineOrderItem:
		if _, err := r.q.Exec(ctx, `
			UPDATE order_item_modifiers SET deleted_at = now(), updated_at = now()
			WHERE restaurant_id = $1 AND order_item_id = $2 AND deleted_at IS NULL`, restaurantID, id); err != nil {
			return fmt.Errorf("delete modifiers of order item: %w", err)
		}
		query = `UPDATE order_items SET deleted_at = now(), updated_at = now()
			WHERE restaurant_id = $1 AND id = $2 AND deleted_at IS NULL`
	default:
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx, query, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByAggregate lista las líneas vivas del agregado por fecha de creación.
func (r *LineItemRepo) ListByAggregate(ctx context.Context, restaurantID string, ref entity.AggregateRef) ([]entity.LineItem, error) {
	var out []entity.LineItem
	collect := func(query string, scan func(pgx.Row) (entity.LineItem, error)) error {
		rows, err := r.q.Query(ctx, query, restaurantID, ref.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			it, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	}

	var err error
	switch ref.Kind {
	case entity.AggregateInvoice:
		err = collect(`SELECT `+invoiceItemColumns+` FROM invoice_items
			WHERE restaurant_id = $1 AND invoice_id = $2 ORDER BY created_at, id`, scanInvoiceItem)
	case entity.AggregateOrder:
		err = collect(`SELECT `+orderItemColumns+` FROM order_items
			WHERE restaurant_id = $1 AND order_id = $2 AND deleted_at IS NULL ORDER BY created_at, id`, scanOrderItem)
		if err == nil {
			err = collect(`SELECT `+modifierColumns+` FROM order_item_modifiers
				WHERE restaurant_id = $1 AND order_id = $2 AND deleted_at IS NULL ORDER BY created_at, id`, scanModifier)
		}
	case entity.AggregateDeliveryOrder:
		err = collect(`SELECT `+deliveryOrderItemColumns+` FROM delivery_order_items
			WHERE restaurant_id = $1 AND delivery_order_id = $2 ORDER BY created_at, id`, scanDeliveryOrderItem)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, fmt.Errorf("list line items of %s: %w", ref.Kind, err)
	}
	return out, nil
}

// lineTable tabla y filtro de "línea viva" por tipo.
func lineTable(kind entity.LineKind) (string, string, error) {
	switch kind {
	case entity.LineInvoiceItem:
		return "invoice_items", "", nil
	case entity.LineOrderItem:
		return "order_items", " AND deleted_at IS NULL", nil
	case entity.LineOrderItemModifier:
		return "order_item_modifiers", " AND deleted_at IS NULL", nil
	case entity.LineDeliveryOrderItem:
		return "delivery_order_items", "", nil
	}
	return "", "", domain.ErrInvalidInput
}

func scanInvoiceItem(row pgx.Row) (entity.LineItem, error) {
	var it entity.InvoiceItem
	var batch *string
	err := row.Scan(&it.ID, &it.RestaurantID, &it.InvoiceID, &it.ProductID,
		&it.UnitPrice, &it.Quantity, &it.LineTotal, &it.ExpiryDate, &batch,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.BatchNumber = derefStr(batch)
	return &it, nil
}

func scanOrderItem(row pgx.Row) (entity.LineItem, error) {
	var it entity.OrderItem
	var notes *string
	err := row.Scan(&it.ID, &it.RestaurantID, &it.OrderID, &it.DishID, &notes,
		&it.UnitPrice, &it.Quantity, &it.LineTotal, &it.CreatedAt, &it.UpdatedAt, &it.DeletedAt)
	if err != nil {
		return nil, err
	}
	it.Notes = derefStr(notes)
	return &it, nil
}

func scanModifier(row pgx.Row) (entity.LineItem, error) {
	var m entity.OrderItemModifier
	err := row.Scan(&m.ID, &m.RestaurantID, &m.OrderID, &m.OrderItemID, &m.ModifierID,
		&m.UnitPrice, &m.Quantity, &m.LineTotal, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanDeliveryOrderItem(row pgx.Row) (entity.LineItem, error) {
	var it entity.DeliveryOrderItem
	var mods []byte
	err := row.Scan(&it.ID, &it.RestaurantID, &it.DeliveryOrderID, &it.DishID, &it.Name, &mods,
		&it.UnitPrice, &it.Quantity, &it.LineTotal, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(mods) > 0 {
		if err := json.Unmarshal(mods, &it.Modifiers); err != nil {
			return nil, fmt.Errorf("decode modifiers: %w", err)
		}
	}
	return &it, nil
}

func modifiersOrEmpty(m []entity.SelectedModifier) []entity.SelectedModifier {
	if m == nil {
		return []entity.SelectedModifier{}
	}
	return m
}
