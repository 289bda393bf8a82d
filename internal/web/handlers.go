package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/leengari/jumanji/internal/engine"
)

type statsResponse struct {
	TotalUsers        int     `json:"total_users"`
	TotalTransactions int     `json:"total_transactions"`
	FraudCount        int     `json:"fraud_count"`
	TotalAmount       float64 `json:"total_amount"`
}

type createUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type createTransactionRequest struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

type flagRequest struct {
	IsFraud *bool `json:"is_fraud"`
}

// transactionView is one joined transaction row shaped for display.
type transactionView struct {
	ID        int64   `json:"id"`
	UserName  string  `json:"user_name"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	IsFraud   bool    `json:"is_fraud"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	users, err := s.db.SelectAll("users")
	if err != nil {
		s.writeError(w, err)
		return
	}
	transactions, err := s.db.SelectAll("transactions")
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats := statsResponse{
		TotalUsers:        len(users),
		TotalTransactions: len(transactions),
	}
	for _, tx := range transactions {
		if tx["is_fraud"].Bool {
			stats.FraudCount++
		}
		stats.TotalAmount += tx["amount"].Float
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.SelectAll("users")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	id, err := s.nextID("users")
	if err != nil {
		s.writeError(w, err)
		return
	}

	row := engine.Row{
		"id":         engine.NewInt(id),
		"first_name": engine.NewText(req.FirstName),
		"last_name":  engine.NewText(req.LastName),
		"email":      engine.NewText(req.Email),
		"created_at": engine.NewText(time.Now().Format("2006-01-02")),
	}
	if err := s.db.Insert("users", row); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User added successfully",
		"id":      id,
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	if err := s.db.DeleteByPrimaryKey("users", engine.NewInt(id)); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.Join("transactions", "user_id", "users", "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]transactionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, transactionView{
			ID:        row["transactions.id"].Int,
			UserName:  row["users.first_name"].Text + " " + row["users.last_name"].Text,
			Amount:    row["transactions.amount"].Float,
			Timestamp: row["transactions.timestamp"].Text,
			IsFraud:   row["transactions.is_fraud"].Bool,
		})
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	id, err := s.nextID("transactions")
	if err != nil {
		s.writeError(w, err)
		return
	}

	isFraud := req.Amount >= s.cfg.Fraud.AmountThreshold

	row := engine.Row{
		"id":        engine.NewInt(id),
		"user_id":   engine.NewInt(req.UserID),
		"amount":    engine.NewFloat(req.Amount),
		"timestamp": engine.NewText(time.Now().Format("2006-01-02")),
		"is_fraud":  engine.NewBool(isFraud),
	}
	if err := s.db.Insert("transactions", row); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Transaction added",
		"id":       id,
		"is_fraud": isFraud,
	})
}

func (s *Server) handleFlagTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction id"})
		return
	}

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	// Flagging defaults to true; is_fraud: false unflags.
	isFraud := true
	if req.IsFraud != nil {
		isFraud = *req.IsFraud
	}

	cond := &engine.Compare{Column: "id", Op: engine.OpEq, Value: engine.NewInt(id)}
	count, err := s.db.Update("transactions", cond, engine.Row{"is_fraud": engine.NewBool(isFraud)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if count == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
		return
	}
	if err := s.persist(); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction updated"})
}
