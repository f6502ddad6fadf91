package controllers

import (
	"net/http"

	"github.com/retailpoint/posadmin-backend/api/responses"
	"github.com/retailpoint/posadmin-backend/api/validators"
	inventorysvc "github.com/retailpoint/posadmin-backend/internal/inventory"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
	"github.com/retailpoint/posadmin-backend/pkg/logger"
)

type createInventoryRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid"`
	WarehouseID  string `json:"warehouse_id" validate:"required,uuid"`
	StockLevel   int    `json:"stock_level" validate:"min=0"`
	ReorderPoint *int   `json:"reorder_point,omitempty" validate:"omitempty,min=0"`
}

type updateInventoryRequest struct {
	StockLevel   *int `json:"stock_level,omitempty" validate:"omitempty,min=0"`
	ReorderPoint *int `json:"reorder_point,omitempty" validate:"omitempty,min=0"`
}

// InventoryList returns inventory records, optionally scoped to one warehouse
// via the warehouse_id query parameter.
func InventoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		raw := r.URL.Query().Get("warehouse_id")
		var warehouseFilter *string
		if raw != "" {
			warehouseFilter = &raw
		}
		warehouseID, err := parseOptionalUUID(warehouseFilter, "invalid warehouse id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// InventoryCreate registers a product's stock in one warehouse.
func InventoryCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseOptionalUUID(&payload.ProductID, "invalid product id")
		if err != nil || productID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}
		warehouseID, err := parseOptionalUUID(&payload.WarehouseID, "invalid warehouse id")
		if err != nil || warehouseID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse id"))
			return
		}

		record, err := svc.Create(r.Context(), inventorysvc.CreateInput{
			ProductID:    *productID,
			WarehouseID:  *warehouseID,
			StockLevel:   payload.StockLevel,
			ReorderPoint: payload.ReorderPoint,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// InventoryUpdate adjusts stock level or reorder point on one record.
func InventoryUpdate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		recordID, err := uuidURLParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetLevels(r.Context(), recordID, inventorysvc.UpdateInput{
			StockLevel:   payload.StockLevel,
			ReorderPoint: payload.ReorderPoint,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryDelete removes an inventory record.
func InventoryDelete(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		recordID, err := uuidURLParam(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
