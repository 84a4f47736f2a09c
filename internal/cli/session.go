package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smokyabdulrahman/miqat/internal/api"
	"github.com/smokyabdulrahman/miqat/internal/cache"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/smokyabdulrahman/miqat/internal/tz"
)

// locationMode describes how the user specified their location.
type locationMode int

const (
	locationCoords locationMode = iota
	locationCity
	locationAuto
)

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Mode       locationMode
	Coordinate geo.Coordinate
	City       string
	Country    string
	Timezone   string // optional hint from geo-detection
}

// session is the state one command invocation works with: where, when, and
// where the times come from.
type session struct {
	cfg    *config.Config
	zone   *time.Location
	now    time.Time
	offset int
	hijri  hijri.Converter

	// Set by withLocation.
	loc      resolvedLocation
	provider source.Provider
	// zoneFixed is true when the zone was given or detected rather than
	// taken from the first remote result.
	zoneFixed bool
}

// newCalendarSession prepares a session that needs no location: the zone,
// the clock and the Hijri converter.
func newCalendarSession(cfg *config.Config) (*session, error) {
	s := &session{
		cfg:    cfg,
		zone:   time.Local,
		offset: cfg.HijriOffsetOrDefault(0),
		hijri:  newHijriConverter(cfg.SourceOrDefault()),
	}
	if cfg.Timezone != "" {
		zone, err := tz.Parse(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		s.zone = zone
		s.zoneFixed = true
	}
	if err := s.setClock(time.Now()); err != nil {
		return nil, err
	}
	return s, nil
}

// newSession prepares a session for commands that show prayer times.
func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s, err := newCalendarSession(cfg)
	if err != nil {
		return nil, err
	}

	// Cache init failure is non-fatal; we just skip caching.
	fileCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		fileCache = nil
	}

	loc, err := resolveLocation(ctx, cfg, fileCache)
	if err != nil {
		return nil, err
	}
	s.loc = loc

	if !s.zoneFixed && loc.Timezone != "" {
		zone, err := tz.Parse(loc.Timezone)
		if err != nil {
			log.Warn().Err(err).Str("timezone", loc.Timezone).Msg("ignoring detected timezone")
		} else {
			s.zone = zone
			s.zoneFixed = true
			s.now = s.now.In(zone)
		}
	}

	s.provider = newProvider(ctx, cfg, fileCache)
	return s, nil
}

// setClock sets now from the real time, moved to the day given by --date.
func (s *session) setClock(real time.Time) error {
	now := real.In(s.zone)
	if FlagDate == "" {
		s.now = now
		return nil
	}
	day, err := parseDate(FlagDate, s.zone)
	if err != nil {
		return fmt.Errorf("--date: %w", err)
	}
	h, m, sec := now.Clock()
	s.now = time.Date(day.Year(), day.Month(), day.Day(), h, m, sec, now.Nanosecond(), s.zone)
	return nil
}

// today returns midnight of the current day in the session zone.
func (s *session) today() time.Time {
	y, m, d := s.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.zone)
}

func (s *session) request(date time.Time) source.Request {
	return source.Request{
		Date:       date,
		Coordinate: s.loc.Coordinate,
		City:       s.loc.City,
		Country:    s.loc.Country,
		Method:     s.cfg.Method,
		Madhab:     s.cfg.Madhab,
	}
}

// day returns the times for one calendar day.
func (s *session) day(ctx context.Context, date time.Time) (source.Result, error) {
	res, err := s.provider.Day(ctx, s.request(date))
	if err != nil {
		return source.Result{}, err
	}
	s.adopt(res)
	return res, nil
}

// days returns n consecutive days starting today.
func (s *session) days(ctx context.Context, n int) ([]source.Result, error) {
	results, err := source.Days(ctx, s.provider, s.request(s.today()), n)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		s.adopt(results[0])
	}
	return results, nil
}

// adopt re-anchors the session to the timezone the remote service resolved,
// when the user gave none and none was detected.
func (s *session) adopt(res source.Result) {
	if s.zoneFixed || res.Timezone == "" {
		return
	}
	zone, err := tz.Parse(res.Timezone)
	if err != nil {
		log.Debug().Err(err).Str("timezone", res.Timezone).Msg("ignoring result timezone")
		return
	}
	s.zone = zone
	s.zoneFixed = true
	s.now = s.now.In(zone)
}

// prayers parses the selected times of res on its calendar day.
func (s *session) prayers(res source.Result, selected []string) ([]prayer.Prayer, error) {
	date, err := s.resultDate(res)
	if err != nil {
		return nil, err
	}
	return prayer.ParseTimings(res.Timings, date, s.zone, selected)
}

func (s *session) resultDate(res source.Result) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", res.Date, s.zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid result date %q: %w", res.Date, err)
	}
	return date, nil
}

// hijriLabel returns the Hijri date of res with the moon-sighting offset
// applied, or "" when it cannot be determined.
func (s *session) hijriLabel(ctx context.Context, res source.Result) string {
	if s.offset == 0 && res.Hijri != nil {
		return res.Hijri.String()
	}
	date, err := s.resultDate(res)
	if err != nil {
		return ""
	}
	h, err := hijri.Shift(ctx, s.hijri, date, s.offset)
	if err != nil {
		log.Debug().Err(err).Str("date", res.Date).Msg("hijri date unavailable")
		return ""
	}
	return h.String()
}

// resolveLocation determines the effective location based on user flags, config, or auto-detection.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config, c *cache.Cache) (resolvedLocation, error) {
	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		coord, err := geo.NewCoordinate(cfg.Latitude, cfg.Longitude)
		if err != nil {
			return resolvedLocation{}, err
		}
		return resolvedLocation{Mode: locationCoords, Coordinate: coord, City: cfg.City, Country: cfg.Country}, nil
	case cfg.City != "":
		if cfg.Country == "" {
			return resolvedLocation{}, fmt.Errorf("--country is required when using --city")
		}
		return resolvedLocation{Mode: locationCity, City: cfg.City, Country: cfg.Country}, nil
	default:
		// Try cached geolocation first.
		if c != nil {
			if cached := c.LoadGeo(ctx); cached != nil {
				if loc, err := detectedLocation(cached); err == nil {
					return loc, nil
				}
			}
		}

		// Fall back to IP-based geolocation.
		detected, err := geo.DetectLocation(ctx)
		if err != nil {
			return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		loc, err := detectedLocation(detected)
		if err != nil {
			return resolvedLocation{}, fmt.Errorf("auto-detected location is unusable: %w", err)
		}

		if c != nil {
			if err := c.SaveGeo(ctx, detected); err != nil {
				log.Debug().Err(err).Msg("failed to cache detected location")
			}
		}
		return loc, nil
	}
}

func detectedLocation(l *geo.Location) (resolvedLocation, error) {
	coord, err := l.Coordinate()
	if err != nil {
		return resolvedLocation{}, err
	}
	return resolvedLocation{
		Mode:       locationAuto,
		Coordinate: coord,
		City:       l.City,
		Country:    l.Country,
		Timezone:   l.Timezone,
	}, nil
}

// newProvider builds the prayer time source chain for the configured mode.
// Remote results are cached in Redis when configured, else on disk.
func newProvider(ctx context.Context, cfg *config.Config, fileCache *cache.Cache) source.Provider {
	local := source.NewLocal()
	local.DefaultMethod = config.DefaultMethod

	mode := cfg.SourceOrDefault()
	if mode == config.SourceLocal {
		return local
	}

	var remote source.Provider = source.NewRemote()
	if store := openStore(ctx, cfg.RedisAddr, fileCache); store != nil {
		remote = source.NewCached(remote, store, mode)
	}
	if mode == config.SourceRemote {
		return remote
	}
	return source.Fallback{Primary: remote, Secondary: local}
}

// openStore returns the cache store to use, or nil for none.
func openStore(ctx context.Context, redisAddr string, fileCache *cache.Cache) cache.Store {
	if redisAddr != "" {
		r := cache.NewRedis(redisAddr, "", "")
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := r.Ping(pingCtx)
		if err == nil {
			return r
		}
		log.Warn().Err(err).Str("addr", redisAddr).Msg("redis unavailable, using file cache")
		_ = r.Close()
	}
	if fileCache == nil {
		return nil
	}
	return fileCache
}

// newHijriConverter picks the Hijri calendar for the source mode: the Al
// Adhan calendar remotely, the tabular calendar locally, or both.
func newHijriConverter(mode string) hijri.Converter {
	switch mode {
	case config.SourceLocal:
		return hijri.Tabular{}
	case config.SourceRemote:
		return api.NewClient()
	default:
		return hijri.Fallback{
			Primary:   api.NewClient(),
			Secondary: hijri.Tabular{},
			OnError: func(err error) {
				log.Warn().Err(err).Msg("hijri service unavailable, using tabular calendar")
			},
		}
	}
}

// parseDate accepts YYYY-MM-DD or DD-MM-YYYY.
func parseDate(s string, zone *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02-01-2006"} {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}
