package controllers

import (
	"errors"
	"net/http"
	"personad/internal/analytics"
	"personad/internal/models"
	"personad/internal/providers"
	"personad/internal/services"
)

type PersonaController struct {
	logger providers.Logger
	store  services.PersonaStoreInterface
}

func NewPersonaController(logger providers.Logger, store services.PersonaStoreInterface) *PersonaController {
	return &PersonaController{
		logger: logger,
		store:  store,
	}
}

func (pc *PersonaController) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	pc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s failed: %s", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "storage failure")
}

func (pc *PersonaController) List(w http.ResponseWriter, r *http.Request) {
	personas, err := pc.store.GetPersonas()
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.FilterPersonas(personas, r.URL.Query().Get("q")))
}

func (pc *PersonaController) Get(w http.ResponseWriter, r *http.Request) {
	personas, err := pc.store.GetPersonas()
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	idx := models.IndexOf(personas, r.PathValue("id"))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, personas[idx])
}

func (pc *PersonaController) Create(w http.ResponseWriter, r *http.Request) {
	var input models.PersonaInput
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	input.Normalize()
	if !pc.validate(w, input.Persona()) {
		return
	}

	persona, _, err := pc.store.CreatePersona(input)
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	pc.logger.Infof(providers.TypePost, "Persona %s (%s) created", persona.ID, persona.Name)
	writeJSON(w, http.StatusCreated, persona)
}

func (pc *PersonaController) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch models.PersonaPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	personas, err := pc.store.GetPersonas()
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	idx := models.IndexOf(personas, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	if !pc.validate(w, patch.Apply(personas[idx])) {
		return
	}

	personas, err = pc.store.UpdatePersona(id, patch)
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	if idx = models.IndexOf(personas, id); idx < 0 {
		writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, personas[idx])
}

// Delete answers with the remaining collection; an unknown id leaves it unchanged.
func (pc *PersonaController) Delete(w http.ResponseWriter, r *http.Request) {
	personas, err := pc.store.DeletePersona(r.PathValue("id"))
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, personas)
}

func (pc *PersonaController) Chat(w http.ResponseWriter, r *http.Request) {
	pc.recordChat(w, r, pc.store.SimulateChat)
}

func (pc *PersonaController) IncrementUsage(w http.ResponseWriter, r *http.Request) {
	pc.recordChat(w, r, pc.store.IncrementPersonaUsage)
}

func (pc *PersonaController) recordChat(w http.ResponseWriter, r *http.Request, record func(id string) ([]models.Persona, error)) {
	id := r.PathValue("id")
	personas, err := record(id)
	if err != nil {
		pc.storeFailure(w, r, err)
		return
	}
	idx := models.IndexOf(personas, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, personas[idx])
}

func (pc *PersonaController) validate(w http.ResponseWriter, persona models.Persona) bool {
	err := models.ValidatePersona(persona)
	if err == nil {
		return true
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return false
}
