package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

type ProductHandler struct {
	Store store.Storage
}

func NewProductHandler(st store.Storage) *ProductHandler {
	return &ProductHandler{Store: st}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	stock, err := h.Store.ListProductStock(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch product stock")
		return
	}
	utils.JSON(w, http.StatusOK, stock)
}
