package http

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/core/ports"
	"github.com/samirrijal/roadwatch/internal/core/usecases"
)

const maxPhotoBytes = 10 << 20

// CreateSubmissionHandler accepts one road-distress report as a multipart
// form: text fields plus an optional photo part. Field validation runs
// before the photo is uploaded anywhere.
func CreateSubmissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := domain.Fields{
			RoadName:     strings.TrimSpace(c.FormValue("road_name")),
			District:     strings.TrimSpace(c.FormValue("district")),
			RoadType:     strings.TrimSpace(c.FormValue("road_type")),
			City:         strings.TrimSpace(c.FormValue("city")),
			DistressType: strings.TrimSpace(c.FormValue("distress_type")),
			Severity:     strings.TrimSpace(c.FormValue("severity")),
			Notes:        strings.TrimSpace(c.FormValue("notes")),
		}

		var err error
		if fields.DistressLength, err = optionalFloat(c.FormValue("distress_length_m")); err != nil {
			return errBadRequest(c, "distress_length_m must be a number")
		}
		if fields.DistressWidth, err = optionalFloat(c.FormValue("distress_width_m")); err != nil {
			return errBadRequest(c, "distress_width_m must be a number")
		}

		reading, err := parseReading(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		photo, photoName, err := readPhoto(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		ctx := c.UserContext()
		sub, err := deps.Submissions.Create(ctx, usecases.CreateSubmissionInput{
			Fields:    fields,
			Reading:   reading,
			Photo:     photo,
			PhotoName: photoName,
		})
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return newError(c, 400, verr.Code, verr.Error())
			}
			if strings.Contains(err.Error(), "out of range") || strings.Contains(err.Error(), "accuracy") {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		LoggerFromCtx(ctx).Info("submission stored",
			"id", sub.ID,
			"severity", sub.Fields.Severity,
			"has_location", sub.Location.Complete(),
		)

		return c.Status(201).JSON(sub)
	}
}

// parseReading extracts an optional explicit lat/lon pair from the form.
// Supplying only one axis is an error rather than a silently dropped value.
func parseReading(c *fiber.Ctx) (*usecases.DeviceReading, error) {
	rawLat := strings.TrimSpace(c.FormValue("lat"))
	rawLon := strings.TrimSpace(c.FormValue("lon"))
	if rawLat == "" && rawLon == "" {
		return nil, nil
	}
	if rawLat == "" || rawLon == "" {
		return nil, errors.New("lat and lon must be supplied together")
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, errors.New("lat must be a decimal degree value")
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return nil, errors.New("lon must be a decimal degree value")
	}

	reading := &usecases.DeviceReading{Lat: lat, Lon: lon}
	if raw := strings.TrimSpace(c.FormValue("accuracy_m")); raw != "" {
		acc, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("accuracy_m must be a number")
		}
		reading.Accuracy = &acc
	}
	return reading, nil
}

func readPhoto(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		// No photo part at all is fine.
		return nil, "", nil
	}
	if fh.Size > maxPhotoBytes {
		return nil, "", errors.New("photo exceeds 10 MiB limit")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.New("unreadable photo part")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return nil, "", errors.New("unreadable photo part")
	}
	if len(data) > maxPhotoBytes {
		return nil, "", errors.New("photo exceeds 10 MiB limit")
	}
	return data, fh.Filename, nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// PhotoLocationHandler extracts GPS tags from an uploaded photo without
// creating a submission. The form preview uses it to prefill coordinates.
func PhotoLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photo, _, err := readPhoto(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if len(photo) == 0 {
			return errBadRequest(c, "photo part is required")
		}

		coord, err := deps.Submissions.LocateFromPhoto(c.Context(), photo)
		if err != nil {
			return errInternal(c, err.Error())
		}

		if lat, lon, ok := coord.Point(); ok {
			return c.JSON(fiber.Map{"found": true, "lat": lat, "lon": lon})
		}
		return c.JSON(fiber.Map{"found": false})
	}
}

// ListSubmissionsHandler returns submissions, newest first, with optional
// severity and distress_type filters.
func ListSubmissionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ports.SubmissionFilter{
			Severity:     c.Query("severity"),
			DistressType: c.Query("distress_type"),
			Limit:        c.QueryInt("limit", 50),
			Offset:       c.QueryInt("offset", 0),
		}

		subs, total, err := deps.Submissions.List(c.Context(), filter)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: filter.Offset, Limit: filter.Limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: subs, Pagination: pg})
	}
}

// NearbySubmissionsHandler returns submissions within a radius of a point.
func NearbySubmissionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 50)

		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 10000 {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}

		subs, err := deps.Submissions.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(subs)
	}
}

// SubmissionStatsHandler returns the severity breakdown and total count.
func SubmissionStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, total, err := deps.Submissions.Stats(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"total":       total,
			"by_severity": counts,
		})
	}
}

// ExportSubmissionsHandler streams all submissions as a CSV download in the
// fixed 12-column schema.
func ExportSubmissionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="submissions.csv"`)

		var buf strings.Builder
		if err := deps.Submissions.ExportCSV(c.Context(), &buf); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendString(buf.String())
	}
}

// GetSubmissionHandler returns a single submission by ID.
func GetSubmissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "submission id is required")
		}
		sub, err := deps.Submissions.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "submission not found")
		}
		return c.JSON(sub)
	}
}

// FormOptionsHandler returns the selectable form values and the column
// schema, so clients render exactly what the backend accepts.
func FormOptionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"road_types":     domain.RoadTypes,
			"distress_types": domain.DistressTypes,
			"severities":     domain.Severities,
			"columns":        domain.Columns(),
		})
	}
}
