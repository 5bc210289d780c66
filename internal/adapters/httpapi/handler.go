// Package httpapi exposes placement evaluation over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"zoohousing/internal/core"
	"zoohousing/pkg/domain"
)

// Handler serves the placement API.
type Handler struct {
	Service  *core.Service
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

// NewHandler constructs a handler. A nil logger disables request logging.
func NewHandler(svc *core.Service, logger *zap.Logger, gatherer prometheus.Gatherer) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger, Gatherer: gatherer}
}

// PlacementsResponse is the success payload of GET /api/v1/placements.
type PlacementsResponse struct {
	Viable     []string           `json:"recintosViaveis"`
	Placements []domain.Placement `json:"placements"`
}

// ErrorResponse carries an evaluation error.
type ErrorResponse struct {
	Message string `json:"erro"`
	Kind    string `json:"kind"`
}

// SpeciesResponse describes one species entry.
type SpeciesResponse struct {
	Name      string   `json:"name"`
	UnitSize  int      `json:"unit_size"`
	Biomes    []string `json:"biomes"`
	Carnivore bool     `json:"carnivore"`
}

// EnclosureResponse describes one enclosure entry.
type EnclosureResponse struct {
	ID            int            `json:"id"`
	Biome         string         `json:"biome"`
	TotalCapacity int            `json:"total_capacity"`
	OccupiedSpace int            `json:"occupied_space"`
	Occupants     map[string]int `json:"occupants"`
}

// NewServer builds an echo instance with the API routes and middleware installed.
func (h *Handler) NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(h.logRequests)
	h.Register(e)
	return e
}

// Register installs the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.GET("/api/v1/placements", h.placements)
	e.GET("/api/v1/assessments", h.assessments)
	e.GET("/api/v1/species", h.species)
	e.GET("/api/v1/enclosures", h.enclosures)
	if h.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
}

func (h *Handler) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		h.Logger.Info("http request",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().Status))
		return err
	}
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) placements(c echo.Context) error {
	species, quantity, err := h.parseRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	placements, err := h.Service.FindViableEnclosures(c.Request().Context(), species, quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PlacementsResponse{
		Viable:     core.FormatPlacements(placements),
		Placements: placements,
	})
}

func (h *Handler) assessments(c echo.Context) error {
	species, quantity, err := h.parseRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	assessments, err := h.Service.AssessEnclosures(c.Request().Context(), species, quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, assessments)
}

func (h *Handler) species(c echo.Context) error {
	list := h.Service.Catalog().ListSpecies()
	out := make([]SpeciesResponse, 0, len(list))
	for _, s := range list {
		biomes := make([]string, 0, len(s.Biomes))
		for _, b := range s.Biomes.Sorted() {
			biomes = append(biomes, string(b))
		}
		out = append(out, SpeciesResponse{Name: s.Name, UnitSize: s.UnitSize, Biomes: biomes, Carnivore: s.Carnivore})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) enclosures(c echo.Context) error {
	cat := h.Service.Catalog()
	list := cat.ListEnclosures()
	out := make([]EnclosureResponse, 0, len(list))
	for _, e := range list {
		out = append(out, EnclosureResponse{
			ID:            e.ID,
			Biome:         e.BiomeLabel,
			TotalCapacity: e.TotalCapacity,
			OccupiedSpace: core.OccupiedSpace(cat, e),
			Occupants:     e.Occupants,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) parseRequest(c echo.Context) (string, int, error) {
	species := c.QueryParam("species")
	quantity, err := h.Service.ParseRequest(species, c.QueryParam("quantity"))
	return species, quantity, err
}

func writeError(c echo.Context, err error) error {
	var evalErr domain.EvaluationError
	if !errors.As(err, &evalErr) {
		return err
	}
	status := http.StatusBadRequest
	if evalErr.Kind == domain.KindNoViableEnclosure {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, ErrorResponse{Message: evalErr.Message(), Kind: string(evalErr.Kind)})
}
