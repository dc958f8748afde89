package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type EditImageRequest struct {
	Image       string `json:"image"`
	Instruction string `json:"instruction"`
}

// GetMenu lists items filtered by ?category= and a name search ?q=
func GetMenu(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := menu.List(q.Get("category"), q.Get("q"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, items)
	}
}

func CreateMenuItem(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.MenuInput
		if !decode(w, r, &req) {
			return
		}
		item, err := menu.Create(req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, item)
	}
}

func UpdateMenuItem(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.MenuInput
		if !decode(w, r, &req) {
			return
		}
		item, err := menu.Update(chi.URLParam(r, "id"), req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, item)
	}
}

func DeleteMenuItem(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := menu.Delete(chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetCategories(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, menu.Categories())
	}
}

func CreateCategory(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CategoryRequest
		if !decode(w, r, &req) {
			return
		}
		c, err := menu.AddCategory(req.Name)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusCreated, c)
	}
}

func DeleteCategory(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := menu.DeleteCategory(chi.URLParam(r, "name")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AssistMenuItem generates a description and price hint, merging them into
// the item when menu_item_id is given
func AssistMenuItem(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.AssistInput
		if !decode(w, r, &req) {
			return
		}
		res, err := menu.Assist(r.Context(), req)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, res)
	}
}

func GenerateMenuAudio(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := menu.GenerateAudio(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, item)
	}
}

func EditMenuImage(menu *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditImageRequest
		if r.ContentLength > 0 && !decode(w, r, &req) {
			return
		}
		item, err := menu.EditImage(r.Context(), chi.URLParam(r, "id"), req.Image, req.Instruction)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, item)
	}
}
