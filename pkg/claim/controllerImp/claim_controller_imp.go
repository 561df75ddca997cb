package controllerImp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"fraatlas/entities"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/claim/service"
	"fraatlas/pkg/geo"
	"fraatlas/pkg/ingest"
	"fraatlas/pkg/logger"
	"fraatlas/pkg/synth"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ClaimCtrl struct{ svc service.ClaimService }

func New(svc service.ClaimService) *ClaimCtrl { return &ClaimCtrl{svc} }

type claimReq struct {
	ID                 string          `json:"id"`
	HolderName         string          `json:"holderName"`
	Village            string          `json:"village"`
	District           string          `json:"district"`
	State              string          `json:"state"`
	Area               float64         `json:"area"`
	Status             string          `json:"status"`
	SoilType           string          `json:"soilType"`
	WaterAvailability  string          `json:"waterAvailability"`
	EstimatedCropValue int64           `json:"estimatedCropValue"`
	Geometry           json.RawMessage `json:"geometry"`
	DocumentName       *string         `json:"documentName"`
	Lat                *float64        `json:"lat"`
	Lng                *float64        `json:"lng"`
}

// claim builds the entity; a centre point without geometry becomes the
// same pentagon an import would synthesise.
func (r *claimReq) claim() *entities.Claim {
	c := &entities.Claim{
		ID:                 r.ID,
		HolderName:         r.HolderName,
		Village:            strings.TrimSpace(r.Village),
		District:           strings.TrimSpace(r.District),
		State:              strings.TrimSpace(r.State),
		Area:               r.Area,
		Status:             entities.ClaimStatus(r.Status),
		SoilType:           entities.SoilType(r.SoilType),
		WaterAvailability:  entities.WaterAvailability(r.WaterAvailability),
		EstimatedCropValue: r.EstimatedCropValue,
		Geometry:           datatypes.JSON(r.Geometry),
		DocumentName:       r.DocumentName,
	}
	if len(bytes.TrimSpace(r.Geometry)) == 0 && r.Lat != nil && r.Lng != nil {
		id := strings.TrimSpace(r.ID)
		p := geo.Pentagon(*r.Lat, *r.Lng, r.Area, synth.ForKey(id+"#geometry").Float64)
		c.Geometry = datatypes.JSON(p.JSON())
	}
	return c
}

func (h *ClaimCtrl) Create(c echo.Context) error {
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	out, err := h.svc.Create(c.Request().Context(), req.claim())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ClaimCtrl) List(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	claims, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return writeErr(c, err)
	}
	if claims == nil {
		claims = []entities.Claim{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": claims, "count": len(claims)})
}

func (h *ClaimCtrl) Get(c echo.Context) error {
	out, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ClaimCtrl) Update(c echo.Context) error {
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	req.ID = c.Param("id")
	out, err := h.svc.Update(c.Request().Context(), req.ID, req.claim())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Import expects a multipart upload in field "file".
func (h *ClaimCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing file"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot open upload"})
	}
	defer src.Close()

	res, err := h.svc.Import(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ClaimCtrl) Export(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	ctx := c.Request().Context()
	stamp := time.Now().UTC().Format("20060102")

	var buf bytes.Buffer
	switch strings.ToLower(c.QueryParam("format")) {
	case "", "csv":
		if err := h.svc.ExportCSV(ctx, f, &buf); err != nil {
			return writeErr(c, err)
		}
		attach(c, fmt.Sprintf("fra-claims-%s.csv", stamp))
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := h.svc.ExportXLSX(ctx, f, &buf); err != nil {
			return writeErr(c, err)
		}
		attach(c, fmt.Sprintf("fra-claims-%s.xlsx", stamp))
		return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be csv or xlsx"})
}

func (h *ClaimCtrl) Stats(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	st, err := h.svc.Stats(c.Request().Context(), f)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func attach(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}

func filterFrom(c echo.Context) (repository.Filter, error) {
	f := repository.Filter{
		State:    c.QueryParam("state"),
		District: c.QueryParam("district"),
		Village:  c.QueryParam("village"),
		Search:   c.QueryParam("q"),
	}
	if s := c.QueryParam("status"); s != "" {
		st, ok := entities.ParseStatus(s)
		if !ok {
			return f, fmt.Errorf("unknown status %q", s)
		}
		f.Status = st
	}
	var err error
	if f.Limit, err = intParam(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(c, "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, service.ErrInvalidClaim),
		errors.Is(err, ingest.ErrUnreadableFile),
		errors.Is(err, ingest.ErrUnsupportedFormat):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrClaimExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	logger.FromContext(c.Request().Context()).Error("claim request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
