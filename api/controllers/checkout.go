package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailpoint/posadmin-backend/api/middleware"
	"github.com/retailpoint/posadmin-backend/api/responses"
	"github.com/retailpoint/posadmin-backend/api/validators"
	salesvc "github.com/retailpoint/posadmin-backend/internal/sales"
	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
	"github.com/retailpoint/posadmin-backend/pkg/logger"
)

type checkoutLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type checkoutRequest struct {
	PaymentMethod string                `json:"payment_method" validate:"required"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Lines         []checkoutLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type checkoutResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Oversold    bool                `json:"oversold"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Checkout settles the register's cart into a persisted transaction and
// deducts stock.
func Checkout(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		lines := make([]salesvc.CheckoutLine, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			productID, err := parseOptionalUUID(&line.ProductID, "invalid product id")
			if err != nil || productID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
				return
			}
			lines = append(lines, salesvc.CheckoutLine{
				ProductID: *productID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		result, err := svc.Checkout(r.Context(), salesvc.CheckoutInput{
			UserID:        userID,
			PaymentMethod: method,
			CustomerName:  strings.TrimSpace(payload.CustomerName),
			Lines:         lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := checkoutResponse{
			Transaction: result.Transaction,
			Oversold:    result.Oversold,
		}
		if result.DeductionErr != nil {
			resp.Warnings = append(resp.Warnings, result.DeductionErr.Error())
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}
