package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Order / Checkout Handlers ---
//

// newOrderNumber mints the external order identifier, e.g. "HB-9F3A21C4".
// Unique key on the column catches the (astronomically unlikely) collision.
func newOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "HB-" + fragment[:8]
}

// checkoutLine is a cart row joined with live product data, locked for
// the duration of the checkout transaction.
type checkoutLine struct {
	ProductID int64
	Name      string
	Image     string
	Price     float64
	Quantity  int
	Stock     int
}

// CheckoutInput is the JSON body for POST /v1/checkout
type CheckoutInput struct {
	Email            string `json:"email" binding:"omitempty,email"` // required for guests
	ShippingMethodID int64  `json:"shippingMethodId" binding:"required"`
	CouponCode       string `json:"couponCode"`

	ShippingName     string `json:"shippingName" binding:"required"`
	ShippingAddress1 string `json:"shippingAddress1" binding:"required"`
	ShippingAddress2 string `json:"shippingAddress2"`
	ShippingCity     string `json:"shippingCity" binding:"required"`
	ShippingPostcode string `json:"shippingPostcode" binding:"required"`
	ShippingCountry  string `json:"shippingCountry" binding:"required"`
}

// Checkout is the handler for POST /v1/checkout
// Works for users and guests. Everything happens in one serializable
// transaction: stock check, coupon reservation, shipping cost, order
// snapshot, stock decrement, cart clear. The coupon usage counter is
// locked and incremented here, so a limited coupon can never be redeemed
// past its limit by concurrent checkouts.
func (h *Handlers) Checkout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	// 1. --- Identify the buyer ---
	owner, ok := resolveCartOwner(c, false)
	if !ok {
		badRequest(c, "No cart to check out")
		return
	}
	if owner.userID == nil && input.Email == "" {
		badRequest(c, "Email is required for guest checkout")
		return
	}

	// 2. --- Begin Transaction ---
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		internalError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	// 3. --- Load & lock the cart's products ---
	clause, arg := owner.clause()
	rows, err := tx.Query(`
		SELECT ci.product_id, p.name, p.image, p.price, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.`+clause+` AND p.active = 1
		FOR UPDATE`, arg)
	if err != nil {
		internalError(c, "Failed to load cart")
		return
	}

	var lines []checkoutLine
	var subtotal float64
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Image,
			&line.Price, &line.Quantity, &line.Stock); err != nil {
			rows.Close()
			internalError(c, "Failed to scan cart line")
			return
		}
		subtotal += line.Price * float64(line.Quantity)
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		internalError(c, "Error iterating cart lines")
		return
	}

	if len(lines) == 0 {
		badRequest(c, "Your cart is empty")
		return
	}
	for _, line := range lines {
		if line.Stock < line.Quantity {
			conflict(c, fmt.Sprintf("Not enough stock for %s", line.Name))
			return
		}
	}

	// 4. --- Reserve the coupon, if any ---
	// The row lock serializes concurrent redemptions of the same code;
	// re-validating under the lock closes the usage-limit race.
	var coupon *models.Coupon
	var couponCode *string
	if input.CouponCode != "" {
		code := models.NormalizeCouponCode(input.CouponCode)
		cp, err := scanCoupon(tx.QueryRow(
			"SELECT "+couponColumns+" FROM coupons WHERE code = ? FOR UPDATE", code))
		if err != nil {
			if err == sql.ErrNoRows {
				notFound(c, "Coupon code not found")
				return
			}
			internalError(c, "Failed to look up coupon")
			return
		}
		if eligErr := cp.CheckEligibility(subtotal, time.Now()); eligErr != nil {
			badRequest(c, eligErr.Message)
			return
		}

		if _, err := tx.Exec(
			"UPDATE coupons SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?",
			time.Now(), cp.ID); err != nil {
			internalError(c, "Failed to redeem coupon")
			return
		}
		coupon = &cp
		couponCode = &code
	}

	// 5. --- Shipping cost ---
	var methodPrice float64
	var methodActive bool
	err = tx.QueryRow(
		"SELECT price, active FROM shipping_methods WHERE id = ?",
		input.ShippingMethodID).Scan(&methodPrice, &methodActive)
	if err != nil {
		if err == sql.ErrNoRows {
			badRequest(c, "Selected shipping method does not exist")
			return
		}
		internalError(c, "Failed to look up shipping method")
		return
	}
	if !methodActive {
		badRequest(c, "Selected shipping method is not available")
		return
	}

	threshold, err := getSettingFloat(tx, freeShippingThresholdKey)
	if err != nil {
		internalError(c, "Failed to read shipping settings")
		return
	}
	quote := models.CalculateShipping(subtotal, threshold, methodPrice)

	// 6. --- Create the order snapshot ---
	amounts := models.ComputeOrderAmounts(subtotal, coupon, quote)
	now := time.Now()
	orderNumber := newOrderNumber()

	var guestEmail *string
	if owner.userID == nil {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		guestEmail = &email
	}
	var address2 *string
	if input.ShippingAddress2 != "" {
		address2 = &input.ShippingAddress2
	}

	result, err := tx.Exec(`
		INSERT INTO orders
		(order_number, user_id, guest_email, status, subtotal, discount_amount,
		 coupon_code, shipping_cost, shipping_method_id, total,
		 shipping_name, shipping_address1, shipping_address2, shipping_city,
		 shipping_postcode, shipping_country, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderNumber, owner.userID, guestEmail, models.OrderStatusPending,
		amounts.Subtotal, amounts.Discount, couponCode, amounts.ShippingCost,
		input.ShippingMethodID, amounts.Total,
		input.ShippingName, input.ShippingAddress1, address2, input.ShippingCity,
		input.ShippingPostcode, input.ShippingCountry, now, now)
	if err != nil {
		internalError(c, "Failed to create order")
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		internalError(c, "Failed to get new order ID")
		return
	}

	// 7. --- Snapshot items & deduct stock ---
	// Name, image and price are copied so later product edits never
	// rewrite this order.
	for _, line := range lines {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, name, image, unit_price, quantity, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			orderID, line.ProductID, line.Name, line.Image, line.Price, line.Quantity, now); err != nil {
			internalError(c, "Failed to save order item")
			return
		}
		if _, err := tx.Exec(
			"UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ?",
			line.Quantity, line.ProductID); err != nil {
			internalError(c, "Failed to deduct stock")
			return
		}
	}

	// 8. --- Clear the cart ---
	if _, err := tx.Exec("DELETE FROM cart_items WHERE "+clause, arg); err != nil {
		internalError(c, "Failed to clear cart")
		return
	}

	// 9. --- Commit ---
	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit checkout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Order placed",
		"orderId":     orderID,
		"orderNumber": orderNumber,
		"status":      models.OrderStatusPending,
		"subtotal":    amounts.Subtotal,
		"discount":    amounts.Discount,
		"shipping":    amounts.ShippingCost,
		"total":       amounts.Total,
	})
}

const orderColumns = `id, order_number, user_id, guest_email, status, subtotal,
	discount_amount, coupon_code, shipping_cost, shipping_method_id, total,
	shipping_name, shipping_address1, shipping_address2, shipping_city,
	shipping_postcode, shipping_country, created_at, updated_at`

func scanOrder(scan func(dest ...interface{}) error) (models.Order, error) {
	var o models.Order
	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &o.GuestEmail, &o.Status,
		&o.Subtotal, &o.DiscountAmount, &o.CouponCode, &o.ShippingCost,
		&o.ShippingMethodID, &o.Total, &o.ShippingName, &o.ShippingAddress1,
		&o.ShippingAddress2, &o.ShippingCity, &o.ShippingPostcode,
		&o.ShippingCountry, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// orderItems loads the item snapshot rows of an order.
func (h *Handlers) orderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := h.DB.Query(`
		SELECT id, order_id, product_id, name, image, unit_price, quantity, created_at
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Name, &item.Image, &item.UnitPrice, &item.Quantity,
			&item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMyOrders is the handler for GET /v1/orders (login required)
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID, _ := currentUserID(c)

	rows, err := h.DB.Query(
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		internalError(c, "Failed to fetch orders")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			internalError(c, "Failed to scan order")
			return
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id (login required)
// Ownership is enforced in the query itself; other users' orders look
// like they don't exist.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID, _ := currentUserID(c)

	o, err := scanOrder(h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?",
		c.Param("id"), userID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Order not found")
			return
		}
		internalError(c, "Failed to fetch order")
		return
	}

	items, err := h.orderItems(o.ID)
	if err != nil {
		internalError(c, "Failed to fetch order items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
}

// TrackOrderInput is the JSON body for POST /v1/orders/track
type TrackOrderInput struct {
	OrderNumber string `json:"orderNumber" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

// TrackOrder is the handler for POST /v1/orders/track (public).
// The order number + email pair is the only authorization for guest
// access, so lookups are rate limited per client IP to slow down order
// number enumeration.
func (h *Handlers) TrackOrder(c *gin.Context) {
	if !h.TrackLimiter.Allow(c.Request.Context(), c.ClientIP()) {
		tooManyRequests(c, "Too many tracking requests, try again in a minute")
		return
	}

	var input TrackOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	o, err := scanOrder(h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE order_number = ?",
		strings.ToUpper(strings.TrimSpace(input.OrderNumber))).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "No order matches that number and email")
			return
		}
		internalError(c, "Failed to fetch order")
		return
	}

	// Resolve the owner's email: guest orders carry it directly, user
	// orders go through the users table.
	var ownerEmail string
	switch {
	case o.GuestEmail != nil:
		ownerEmail = *o.GuestEmail
	case o.UserID != nil:
		if err := h.DB.QueryRow(
			"SELECT email FROM users WHERE id = ?", *o.UserID).Scan(&ownerEmail); err != nil {
			internalError(c, "Failed to resolve order owner")
			return
		}
	}

	// Same NOT_FOUND for a wrong email as for a wrong number, so the
	// response never confirms an order number exists.
	if !strings.EqualFold(strings.TrimSpace(input.Email), ownerEmail) {
		notFound(c, "No order matches that number and email")
		return
	}

	items, err := h.orderItems(o.ID)
	if err != nil {
		internalError(c, "Failed to fetch order items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
}

// GetAllOrders is the handler for GET /v1/admin/orders (admin only)
// Supports ?status= filtering.
func (h *Handlers) GetAllOrders(c *gin.Context) {
	query := "SELECT " + orderColumns + " FROM orders"
	args := []interface{}{}

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			badRequest(c, "Unknown order status: "+status)
			return
		}
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT 200"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		internalError(c, "Failed to fetch orders")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			internalError(c, "Failed to scan order")
			return
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatusInput is the JSON body for the admin status patch.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status
// (admin only). Moves are checked against the transition table: an order
// that has shipped can no longer be cancelled, terminal states never
// change. Cancelling puts the items' stock back.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		badRequest(c, "Unknown order status: "+input.Status)
		return
	}
	orderID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		internalError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	// Lock the order row so concurrent patches serialize
	var currentStatus string
	err = tx.QueryRow(
		"SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&currentStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Order not found")
			return
		}
		internalError(c, "Failed to fetch order")
		return
	}

	if !models.CanTransitionOrder(currentStatus, input.Status) {
		badRequest(c, fmt.Sprintf("Cannot move order from %s to %s", currentStatus, input.Status))
		return
	}

	if input.Status == models.OrderStatusCancelled {
		if err := restockOrderItems(tx, orderID); err != nil {
			internalError(c, "Failed to restock items")
			return
		}
	}

	if _, err := tx.Exec(
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		input.Status, time.Now(), orderID); err != nil {
		internalError(c, "Failed to update order status")
		return
	}

	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit status change")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": input.Status})
}

// restockOrderItems returns an order's quantities to product stock.
// Called on cancellation, within the caller's transaction.
func restockOrderItems(tx *sql.Tx, orderID interface{}) error {
	_, err := tx.Exec(`
		UPDATE products p
		JOIN order_items oi ON oi.product_id = p.id
		SET p.stock_quantity = p.stock_quantity + oi.quantity
		WHERE oi.order_id = ?`, orderID)
	return err
}

// ProcessStaleOrders cancels orders stuck in pending for more than 24
// hours and restocks their items. It runs from the background worker in
// main, not from a request.
func (h *Handlers) ProcessStaleOrders() {
	cutoff := time.Now().Add(-24 * time.Hour)

	rows, err := h.DB.Query(
		"SELECT id FROM orders WHERE status = ? AND created_at < ?",
		models.OrderStatusPending, cutoff)
	if err != nil {
		log.Printf("stale-order sweep: query failed: %v", err)
		return
	}

	var staleIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			log.Printf("stale-order sweep: scan failed: %v", err)
			return
		}
		staleIDs = append(staleIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Printf("stale-order sweep: iteration failed: %v", err)
		return
	}

	for _, orderID := range staleIDs {
		if err := h.cancelStaleOrder(orderID); err != nil {
			log.Printf("stale-order sweep: order %d: %v", orderID, err)
			continue
		}
		log.Printf("stale-order sweep: cancelled order %d", orderID)
	}
}

func (h *Handlers) cancelStaleOrder(orderID int64) error {
	tx, err := h.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-check under lock: an admin may have moved it since the sweep query
	var status string
	if err := tx.QueryRow(
		"SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&status); err != nil {
		return err
	}
	if status != models.OrderStatusPending {
		return nil
	}

	if err := restockOrderItems(tx, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		models.OrderStatusCancelled, time.Now(), orderID); err != nil {
		return err
	}
	return tx.Commit()
}
