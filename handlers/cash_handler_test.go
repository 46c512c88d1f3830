package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhassan900/wattar-academy/models"
)

func TestCashCreateGeneratesReference(t *testing.T) {
	db := setupDB(t)
	h := NewCashHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/cash", map[string]any{
		"transaction_date": "2026-03-01",
		"type":             "income",
		"amount":           350.0,
		"category_code":    "p", // lowercased codes are accepted
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var rec1 models.CashTransaction
	require.NoError(t, db.First(&rec1).Error)
	assert.Equal(t, "P", rec1.CategoryCode)
	assert.NotEmpty(t, rec1.ReferenceNumber)
	assert.Equal(t, uint(1), rec1.CreatedBy)
}

func TestCashCreateRejectsUnknownCategory(t *testing.T) {
	db := setupDB(t)
	h := NewCashHandler(db)

	c, _ := newRequest(t, http.MethodPost, "/cash", map[string]any{
		"transaction_date": "2026-03-01",
		"type":             "expense",
		"amount":           100.0,
		"category_code":    "XYZ",
	})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.Create(c)))
}

func TestCashCreateRejectsBadAmount(t *testing.T) {
	db := setupDB(t)
	h := NewCashHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/cash", map[string]any{
		"transaction_date": "2026-03-01",
		"type":             "income",
		"amount":           -5.0,
		"category_code":    "P",
	})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashListTotals(t *testing.T) {
	db := setupDB(t)
	h := NewCashHandler(db)

	for _, tx := range []models.CashTransaction{
		{TransactionDate: "2026-03-01", Type: "income", Amount: 500, CategoryCode: "P", ReferenceNumber: "r1", CreatedBy: 1},
		{TransactionDate: "2026-03-02", Type: "income", Amount: 250, CategoryCode: "G", ReferenceNumber: "r2", CreatedBy: 1},
		{TransactionDate: "2026-03-03", Type: "expense", Amount: 300, CategoryCode: "AR", ReferenceNumber: "r3", CreatedBy: 1},
	} {
		require.NoError(t, db.Create(&tx).Error)
	}

	c, rec := newRequest(t, http.MethodGet, "/cash", nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, 750.0, body["total_income"])
	assert.Equal(t, 300.0, body["total_expense"])
	assert.Equal(t, 450.0, body["balance"])
	assert.Len(t, body["transactions"].([]any), 3)
}

func TestCashCategoriesSeeded(t *testing.T) {
	db := setupDB(t)
	h := NewCashHandler(db)

	c, rec := newRequest(t, http.MethodGet, "/cash/categories", nil)
	require.NoError(t, h.Categories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// 9 expense + 10 income codes in the seed list
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Len(t, cats, 19)
}
