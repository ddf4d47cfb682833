package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/vpay/vpay-backend/internal/middleware"
	"github.com/vpay/vpay-backend/internal/models"
)

// ExportTransactions serves the authenticated user's transactions as a
// downloadable XML statement
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, models.ErrInvalidToken)
		return
	}

	list, err := h.accounts.Transactions(user.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	statement := doc.CreateElement("Statement")
	statement.CreateAttr("generated_at", time.Now().Format(time.RFC3339))

	account := statement.CreateElement("Account")
	account.CreateAttr("id", strconv.FormatInt(user.ID, 10))
	account.CreateAttr("email", user.Email)
	account.CreateAttr("balance", fmt.Sprintf("%.2f", user.Balance))

	transactions := statement.CreateElement("Transactions")
	for i := range list {
		t := &list[i]
		e := transactions.CreateElement("Transaction")
		e.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		e.CreateAttr("amount", fmt.Sprintf("%.2f", t.Amount))
		e.CreateAttr("type", t.Type)
		e.CreateAttr("biller", t.Biller)
		e.CreateAttr("category", t.Category)
		e.CreateAttr("status", t.Status)
		e.CreateAttr("timestamp", time.Unix(t.Timestamp, 0).UTC().Format(time.RFC3339))
	}

	doc.Indent(2)
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.xml"`)
	if _, err := doc.WriteTo(w); err != nil {
		h.log.Errorf("Failed to write statement: %v", err)
	}
}
