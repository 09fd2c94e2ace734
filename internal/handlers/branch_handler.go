package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

type BranchHandler struct {
	Store store.Storage
}

func NewBranchHandler(st store.Storage) *BranchHandler {
	return &BranchHandler{Store: st}
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Store.ListBranches(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch branches")
		return
	}
	utils.JSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["branchId"]

	branch, err := h.Store.GetBranch(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Branch not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch branch")
		return
	}
	utils.JSON(w, http.StatusOK, branch)
}
