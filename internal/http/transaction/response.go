package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/transaction"
)

type response struct {
	ID           uuid.UUID          `json:"id"`
	UploadID     uuid.UUID          `json:"upload_id"`
	Amount       int64              `json:"amount"`
	Type         transaction.Type   `json:"type"`
	Status       transaction.Status `json:"status"`
	Description  string             `json:"description"`
	Date         time.Time          `json:"date"`
	Currency     string             `json:"currency"`
	CategoryID   *uuid.UUID         `json:"category_id,omitempty"`
	IsDeductible bool               `json:"is_deductible"`
	Confidence   float64            `json:"confidence"`
	Method       transaction.Method `json:"method,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) response {
	return response{
		ID:           tx.ID,
		UploadID:     tx.UploadID,
		Amount:       tx.Amount,
		Type:         tx.Type,
		Status:       tx.Status,
		Description:  tx.Description,
		Date:         tx.Date,
		Currency:     tx.Currency,
		CategoryID:   tx.CategoryID,
		IsDeductible: tx.IsDeductible,
		Confidence:   tx.Confidence,
		Method:       tx.Method,
		CreatedAt:    tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []response {
	responses := make([]response, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toResponse(tx))
	}

	return responses
}
