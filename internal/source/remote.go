package source

import (
	"context"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// Remote fetches prayer times from the Al Adhan API.
type Remote struct {
	Client *api.Client
}

// NewRemote returns a Remote using the default API client.
func NewRemote() *Remote {
	return &Remote{Client: api.NewClient()}
}

// Day implements Provider.
func (r *Remote) Day(ctx context.Context, req Request) (Result, error) {
	method, school, err := aladhanParams(req)
	if err != nil {
		return Result{}, err
	}

	var resp *api.Response
	if req.ByCity() {
		resp, err = r.Client.FetchByCity(ctx, req.Date, req.City, req.Country, method, school)
	} else {
		resp, err = r.Client.FetchByCoordinates(ctx, req.Date, req.Coordinate.Lat, req.Coordinate.Lng, method, school)
	}
	if err != nil {
		return Result{}, err
	}
	return fromAPI(resp.Data, req.Date), nil
}

// Month implements MonthProvider with the calendar endpoints.
func (r *Remote) Month(ctx context.Context, req Request, year int, month time.Month) ([]Result, error) {
	method, school, err := aladhanParams(req)
	if err != nil {
		return nil, err
	}

	var resp *api.CalendarResponse
	if req.ByCity() {
		resp, err = r.Client.FetchCalendarByCity(ctx, year, int(month), req.City, req.Country, method, school)
	} else {
		resp, err = r.Client.FetchCalendarByCoordinates(ctx, year, int(month), req.Coordinate.Lat, req.Coordinate.Lng, method, school)
	}
	if err != nil {
		return nil, err
	}

	loc := req.Date.Location()
	out := make([]Result, 0, len(resp.Data))
	for i, d := range resp.Data {
		out = append(out, fromAPI(d, time.Date(year, month, i+1, 0, 0, 0, 0, loc)))
	}
	return out, nil
}

// aladhanParams maps the request's method and madhab to Al Adhan's numeric
// parameters. -1 lets the API choose.
func aladhanParams(req Request) (method, school int, err error) {
	method, school = -1, -1
	if req.Method != "" {
		m, err := calc.LookupMethod(req.Method)
		if err != nil {
			return 0, 0, err
		}
		method = m.AladhanID
	}
	if req.Madhab != "" {
		m, err := calc.LookupMadhab(req.Madhab)
		if err != nil {
			return 0, 0, err
		}
		school = m.School()
	}
	return method, school, nil
}

func fromAPI(d api.Data, date time.Time) Result {
	timings := d.Timings.Map()
	for k, v := range timings {
		timings[k] = prayer.Normalize(v)
	}

	res := Result{
		Date:      dateKey(date),
		Timings:   timings,
		Set:       d.Timings.Set(),
		Method:    d.Meta.Method.Name,
		Timezone:  d.Meta.Timezone,
		Latitude:  d.Meta.Latitude,
		Longitude: d.Meta.Longitude,
		Origin:    OriginRemote,
	}
	// ID 0 is Jafari, so only trust the ID when the meta block is present.
	if m, ok := calc.MethodByAladhanID(d.Meta.Method.ID); ok && d.Meta.Method.Name != "" {
		res.Method = string(m.ID)
	}
	if h, err := d.Date.Hijri.ToDate(); err == nil {
		res.Hijri = &h
	}
	if g, err := d.Date.Gregorian.Time(); err == nil {
		res.Date = dateKey(g)
	}
	return res
}

func (r *Remote) String() string { return fmt.Sprintf("remote(%s)", r.Client.BaseURL) }
