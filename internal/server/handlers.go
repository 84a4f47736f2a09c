package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/ramadan"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/smokyabdulrahman/miqat/internal/tz"
)

const dateLayout = "02-01-2006"

// maxHijriOffset bounds the moon-sighting offset accepted by /v1/ramadan.
const maxHijriOffset = 3

// envelope mirrors the Al Adhan response wrapper.
type envelope struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// errBadRequest marks client input errors that have no engine sentinel.
var errBadRequest = errors.New("bad request")

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Status: "OK", Data: data})
}

func fail(c *gin.Context, err error) {
	code := statusFor(err)
	c.JSON(code, envelope{Code: code, Status: http.StatusText(code), Data: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, calc.ErrUnknownMethod),
		errors.Is(err, calc.ErrUnknownMadhab),
		errors.Is(err, tz.ErrInvalidZone),
		errors.Is(err, hijri.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, calc.ErrUnresolvableAngle),
		errors.Is(err, calc.ErrInvalidComputation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ramadan.ErrUnresolvable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", errBadRequest, msg)
	}
	return fmt.Errorf("%w: %s: %w", errBadRequest, msg, err)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// location resolves the "timezone" query parameter.
func (s *Server) location(c *gin.Context) (*time.Location, error) {
	name := c.Query("timezone")
	if name == "" {
		return s.loc, nil
	}
	return tz.Parse(name)
}

// day parses a DD-MM-YYYY path or query value as midnight in loc.
func day(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, badRequest("invalid date, want DD-MM-YYYY", err)
	}
	return t, nil
}

func (s *Server) timings(c *gin.Context) {
	loc, err := s.location(c)
	if err != nil {
		fail(c, err)
		return
	}
	date, err := day(c.Param("date"), loc)
	if err != nil {
		fail(c, err)
		return
	}

	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		fail(c, badRequest("latitude is required", err))
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		fail(c, badRequest("longitude is required", err))
		return
	}
	coord, err := geo.NewCoordinate(lat, lng)
	if err != nil {
		fail(c, err)
		return
	}

	method, err := calc.LookupMethod(c.DefaultQuery("method", s.method))
	if err != nil {
		fail(c, err)
		return
	}
	madhab, err := calc.LookupMadhab(c.DefaultQuery("school", "0"))
	if err != nil {
		fail(c, err)
		return
	}

	res, err := s.local.Day(c.Request.Context(), source.Request{
		Date:       date,
		Coordinate: coord,
		Method:     string(method.ID),
		Madhab:     madhab.String(),
	})
	if err != nil {
		fail(c, err)
		return
	}

	data := api.Data{
		Timings: api.NewTimings(res.Timings),
		Date: api.DateInfo{
			Readable:  date.Format("02 Jan 2006"),
			Timestamp: strconv.FormatInt(date.Unix(), 10),
			Gregorian: api.NewGregorianDate(date),
		},
		Meta: api.Meta{
			Latitude:  coord.Lat,
			Longitude: coord.Lng,
			Timezone:  loc.String(),
			Method:    api.MethodInfo{ID: method.AladhanID, Name: method.Name},
			School:    madhabLabel(madhab),
		},
	}
	if res.Hijri != nil {
		data.Date.Hijri = api.NewHijriDate(*res.Hijri)
	}
	ok(c, data)
}

func madhabLabel(m calc.Madhab) string {
	if m == calc.Hanafi {
		return "HANAFI"
	}
	return "STANDARD"
}

type ramadanStatus struct {
	IsRamadan     bool `json:"is_ramadan"`
	DaysUntil     *int `json:"days_until,omitempty"`
	CurrentDay    *int `json:"current_day,omitempty"`
	DaysRemaining *int `json:"days_remaining,omitempty"`
}

type ramadanResponse struct {
	HijriYear int           `json:"hijri_year"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Days      int           `json:"days"`
	Offset    int           `json:"offset"`
	Status    ramadanStatus `json:"status"`
	OddNights []string      `json:"odd_nights"`
}

func (s *Server) ramadan(c *gin.Context) {
	loc, err := s.location(c)
	if err != nil {
		fail(c, err)
		return
	}

	today := s.now().In(loc)
	if v := c.Query("date"); v != "" {
		if today, err = day(v, loc); err != nil {
			fail(c, err)
			return
		}
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < -maxHijriOffset || offset > maxHijriOffset {
			fail(c, badRequest("offset must be an integer between -3 and 3", err))
			return
		}
	}

	w, st, err := s.resolver.Resolve(c.Request.Context(), today, offset)
	if err != nil {
		fail(c, err)
		return
	}

	out := ramadanResponse{
		HijriYear: w.HijriYear,
		Start:     w.Start.Format(dateLayout),
		End:       w.End.Format(dateLayout),
		Days:      w.Days(),
		Offset:    offset,
		Status: ramadanStatus{
			IsRamadan:     st.IsRamadan,
			DaysUntil:     st.DaysUntil,
			CurrentDay:    st.CurrentDay,
			DaysRemaining: st.DaysRemaining,
		},
	}
	for _, n := range w.OddNights() {
		out.OddNights = append(out.OddNights, n.Format(dateLayout))
	}
	ok(c, out)
}

func (s *Server) gregorianToHijri(c *gin.Context) {
	date, err := day(c.Param("date"), time.UTC)
	if err != nil {
		fail(c, err)
		return
	}
	h, err := s.conv.ToHijri(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, api.ConversionData{
		Hijri:     api.NewHijriDate(h),
		Gregorian: api.NewGregorianDate(date),
	})
}

func (s *Server) hijriToGregorianCalendar(c *gin.Context) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		fail(c, badRequest("month must be between 1 and 12", err))
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		fail(c, badRequest("year must be a positive integer", err))
		return
	}

	days, err := s.conv.MonthToGregorian(c.Request.Context(), month, year)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]api.ConversionData, 0, len(days))
	for i, d := range days {
		out = append(out, api.ConversionData{
			Hijri:     api.NewHijriDate(hijri.Date{Day: i + 1, Month: month, Year: year}),
			Gregorian: api.NewGregorianDate(d),
		})
	}
	ok(c, out)
}

type validateResponse struct {
	Valid   bool              `json:"valid"`
	Timings map[string]string `json:"timings,omitempty"`
}

// validate checks a timings object as returned by /v1/timings or Al Adhan.
func (s *Server) validate(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, badRequest("body must be a JSON object of prayer times", err))
		return
	}

	normalized := make(map[string]string, len(body))
	for k, v := range body {
		normalized[k] = prayer.Normalize(v)
	}
	ok(c, validateResponse{
		Valid:   prayer.ValidateMap(normalized, prayer.Names[:]),
		Timings: normalized,
	})
}
