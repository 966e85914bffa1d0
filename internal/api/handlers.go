package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resto/internal/database"
	"resto/internal/models"
	"resto/internal/service"
)

// writeDomainError maps domain failures onto HTTP statuses. Validation
// problems are 400, missing rows 404, anything racing or rule-breaking 409.
func writeDomainError(w http.ResponseWriter, err error) {
	var verrs models.ValidationErrors
	var conflict *service.ErrReservationConflict

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"violations": verrs,
		})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"conflicts": conflict.Conflicts,
		})
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, database.ErrDuplicateUsername),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrOrderNotClosable),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, service.ErrDishUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTooManyLoginAttempts):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// atParam parses the optional ?at= instant, defaulting to now.
func atParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("at"))
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func versionParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("version")), 10, 64)
}

// Auth

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRegister creates a staff account; only an admin session may call it.
func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	session, err := s.auth.SessionFromToken(r.Context(), bearerToken(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if session == nil || !session.IsAdmin {
		writeError(w, http.StatusForbidden, "admin session required")
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user := &models.User{Username: body.Username, FullName: body.FullName, IsAdmin: body.IsAdmin}
	if err := s.auth.Register(r.Context(), user, body.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Tables

func (s *HTTPServer) handleFloorStatus(w http.ResponseWriter, r *http.Request) {
	at, err := atParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at format; expected RFC3339")
		return
	}

	states, err := s.tables.FloorStatus(r.Context(), at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": states, "at": at})
}

func (s *HTTPServer) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.tables.CreateTable(r.Context(), &table); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (s *HTTPServer) handleTableAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}
	at, err := atParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at format; expected RFC3339")
		return
	}

	available, err := s.tables.IsAvailable(r.Context(), id, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"table_id": id, "at": at, "available": available})
}

func (s *HTTPServer) handleTableStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}
	at, err := atParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at format; expected RFC3339")
		return
	}

	status, err := s.tables.CurrentStatus(r.Context(), id, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"table_id": id, "at": at, "status": status})
}

func (s *HTTPServer) handleSetTableActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.tables.SetTableActive(r.Context(), id, body.Active); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reservations

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var reservation models.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.reservations.CreateReservation(r.Context(), &reservation); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request) {
	if tableRaw := strings.TrimSpace(r.URL.Query().Get("table_id")); tableRaw != "" {
		tableID, err := strconv.ParseInt(tableRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid table_id")
			return
		}
		list, err := s.reservations.GetReservationsByTable(r.Context(), tableID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
		return
	}

	dateRaw := strings.TrimSpace(r.URL.Query().Get("date"))
	date := time.Now()
	if dateRaw != "" {
		parsed, err := time.Parse("2006-01-02", dateRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	list, err := s.reservations.GetReservationsByDate(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

func (s *HTTPServer) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := s.reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *HTTPServer) handleReservationAction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}
	version, err := versionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "version is required")
		return
	}

	ctx := r.Context()
	switch r.PathValue("action") {
	case "confirm":
		err = s.reservations.ConfirmReservation(ctx, id, version)
	case "checkin":
		err = s.reservations.CheckInReservation(ctx, id, version)
	case "complete":
		err = s.reservations.CompleteReservation(ctx, id, version)
	case "cancel":
		err = s.reservations.CancelReservation(ctx, id, version)
	case "no-show":
		err = s.reservations.MarkNoShow(ctx, id, version)
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orders

func (s *HTTPServer) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TableID             int64  `json:"table_id"`
		WaiterID            string `json:"waiter_id"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), body.TableID, body.WaiterID, body.SpecialInstructions)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *HTTPServer) handleActiveOrders(w http.ResponseWriter, r *http.Request) {
	if tableRaw := strings.TrimSpace(r.URL.Query().Get("table_id")); tableRaw != "" {
		tableID, err := strconv.ParseInt(tableRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid table_id")
			return
		}
		orders, err := s.orders.GetOrdersByTable(r.Context(), tableID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
		return
	}

	orders, err := s.orders.GetActiveOrders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *HTTPServer) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order":                  order,
		"total_amount":           order.TotalAmount(),
		"estimated_waiting_time": order.EstimatedWaitingTime(),
	})
}

func (s *HTTPServer) handleAddOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var body struct {
		DishID              int64  `json:"dish_id"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item := &models.OrderItem{
		DishID:              body.DishID,
		Quantity:            body.Quantity,
		SpecialInstructions: body.SpecialInstructions,
	}
	order, err := s.orders.AddItem(r.Context(), id, item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *HTTPServer) handleOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.orders.ChangeItemStatus(r.Context(), orderID, itemID, body.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *HTTPServer) handleCloseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	version, err := versionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "version is required")
		return
	}

	order, err := s.orders.CloseOrder(r.Context(), id, version)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Menu

func (s *HTTPServer) handleListDishes(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"
	dishes, err := s.menu.ListDishes(r.Context(), onlyAvailable)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dishes": dishes})
}

func (s *HTTPServer) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	var dish models.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.menu.CreateDish(r.Context(), &dish); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (s *HTTPServer) handleDishAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dish id")
		return
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.menu.SetDishAvailability(r.Context(), id, body.Available); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analytics and reports

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analytics.Dashboard(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "exports are not configured")
		return
	}

	dateRaw := strings.TrimSpace(r.URL.Query().Get("date"))
	date := time.Now()
	if dateRaw != "" {
		parsed, err := time.Parse("2006-01-02", dateRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	path, err := s.exporter.DailyReport(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=daily_report.xlsx")
	http.ServeFile(w, r, path)
}
