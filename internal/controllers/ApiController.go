package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	apperrors "babylog/internal/errors"
	"babylog/internal/models"
	"babylog/internal/providers"
	"babylog/internal/services"
	"babylog/internal/structures"
)

type ApiController struct {
	logger       providers.Logger
	service      services.RecordServiceInterface
	cache        providers.CacheProviderInterface
	lenient      bool
	maxBodyBytes int64
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.RecordServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:       logger,
		service:      service,
		cache:        cache,
		lenient:      conf.Api.LenientBodies,
		maxBodyBytes: conf.Api.MaxBodyBytes,
	}
}

// serveFromCacheOrCompute keys every entry by the store revision read before
// computing, so a commit makes all older entries unreachable.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	cacheKey := key + ":" + strconv.FormatUint(ac.service.Revision(), 10)
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// decodeBody reads the request body into v. An unparsable body is rejected
// unless lenient bodies are enabled, in which case it reports false and the
// caller proceeds as if "{}" had been sent. Oversized bodies are always
// rejected.
func (ac *ApiController) decodeBody(w http.ResponseWriter, r *http.Request, v any) (bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, ac.maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return false, apperrors.Malformed(err)
	}

	if err = json.Unmarshal(data, v); err != nil {
		if ac.lenient {
			ac.logger.Warnf(providers.TypeWrite, "%s %s: ignoring malformed body: %v", r.Method, r.URL.Path, err)
			return false, nil
		}
		return false, apperrors.Malformed(err)
	}
	return true, nil
}

func (ac *ApiController) decodeRecord(w http.ResponseWriter, r *http.Request) (models.Record, error) {
	var rec models.Record
	ok, err := ac.decodeBody(w, r, &rec)
	if err != nil {
		return nil, err
	}
	if ok && rec == nil && !ac.lenient {
		return nil, apperrors.Malformed(errors.New("body must be a JSON object"))
	}
	if !ok || rec == nil {
		rec = models.Record{}
	}
	return rec, nil
}

func collectionParam(r *http.Request) (models.Collection, error) {
	name := chi.URLParam(r, "collection")
	c, ok := models.ParseCollection(name)
	if !ok {
		return "", apperrors.NotFoundf("unknown collection %q", name)
	}
	return c, nil
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (ac *ApiController) List(w http.ResponseWriter, r *http.Request) {
	c, err := collectionParam(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, "list:"+c.String(), func() (any, error) {
		return ac.service.List(c)
	})
}

func (ac *ApiController) Insert(w http.ResponseWriter, r *http.Request) {
	c, err := collectionParam(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	rec, err := ac.decodeRecord(w, r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}

	stored, err := ac.service.Insert(c, rec)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (ac *ApiController) Update(w http.ResponseWriter, r *http.Request) {
	c, err := collectionParam(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, ac.logger, apperrors.NotFoundf("%s/%s not found", c, chi.URLParam(r, "id")))
		return
	}
	patch, err := ac.decodeRecord(w, r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}

	updated, err := ac.service.Update(c, id, patch)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (ac *ApiController) Delete(w http.ResponseWriter, r *http.Request) {
	c, err := collectionParam(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	if id, ok := idParam(r); ok {
		if err = ac.service.Delete(c, id); err != nil {
			writeError(w, r, ac.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "export", func() (any, error) {
		return ac.service.Export()
	})
}

func (ac *ApiController) Import(w http.ResponseWriter, r *http.Request) {
	doc := &models.ImportDocument{}
	ok, err := ac.decodeBody(w, r, doc)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	if !ok {
		doc = &models.ImportDocument{}
	}
	if err = ac.service.Import(doc); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
