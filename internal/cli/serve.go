package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/buildinfo"
	"github.com/matzehuels/patternsynth/pkg/cache"
	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/observability"
	"github.com/matzehuels/patternsynth/pkg/pipeline"
	"github.com/matzehuels/patternsynth/pkg/recipe"
)

const (
	defaultAddr           = ":8080"
	defaultServeMaxSteps  = 5000
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	recipe.FormatSVG:  "image/svg+xml",
	recipe.FormatPNG:  "image/png",
	recipe.FormatJSON: "application/json",
	recipe.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		cfg     serverConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered patterns over HTTP",
		Long: `Serve rendered patterns over HTTP.

Routes:
  GET /healthz                        liveness probe with build version
  GET /stats                          request, cache and simulation counters
  GET /presets                        built-in recipes as JSON
  GET /presets/{name}.{format}        render a preset
  GET /patterns/{pattern}.{format}    render a pattern from query parameters

Query parameters mirror the generate flags: shape, value, segments, depth,
points, distribution, matcher, width, height, seed, steps, dt, scale, stroke,
bodies and detailed. Every request builds its own network.`,
		Example: `  patternsynth serve --addr :8080
  curl 'localhost:8080/patterns/voronoi.svg?shape=lerp&value=1&points=100'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&cfg.maxSteps, "max-steps", defaultServeMaxSteps, "largest steps value a request may ask for")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultRequestTimeout, "per-request simulation timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, cfg serverConfig) error {
	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:"))
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg.stats = observability.NewRecorder()
	observability.SetPipelineHooks(cfg.stats)
	observability.SetCacheHooks(cfg.stats)
	observability.SetHTTPHooks(cfg.stats)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.Logger, cfg).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printNextStep("Try", "curl http://"+displayAddr(addr)+"/patterns/box.svg")

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		printInfo("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Server
// =============================================================================

type serverConfig struct {
	maxSteps int
	timeout  time.Duration
	stats    *observability.Recorder // served on /stats when set
}

type server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    serverConfig
}

func newServer(runner *pipeline.Runner, logger *log.Logger, cfg serverConfig) *server {
	if cfg.maxSteps <= 0 {
		cfg.maxSteps = defaultServeMaxSteps
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultRequestTimeout
	}
	return &server{runner: runner, logger: logger, cfg: cfg}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.stats != nil {
		r.Get("/stats", s.handleStats)
	}
	r.Get("/presets", s.handlePresets)
	r.Get("/presets/{name}.{format}", s.handlePreset)
	r.Get("/patterns/{pattern}.{format}", s.handlePattern)

	return r
}

// observe attaches a request-scoped logger and reports requests to the HTTP
// hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logger := s.logger.With("request", id[:8])
		ctx := withLogger(r.Context(), logger)
		hooks := observability.HTTP()

		hooks.OnRequest(ctx, r.Method, r.URL.Path)
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-ID", id)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, dur)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypes[recipe.FormatJSON])
	json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Read()})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypes[recipe.FormatJSON])
	json.NewEncoder(w).Encode(s.cfg.stats.Stats())
}

func (s *server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]recipe.Recipe)
	for _, name := range recipe.PresetNames() {
		rc, err := recipe.Preset(name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out[name] = rc
	}
	w.Header().Set("Content-Type", contentTypes[recipe.FormatJSON])
	json.NewEncoder(w).Encode(out)
}

func (s *server) handlePreset(w http.ResponseWriter, r *http.Request) {
	rc, err := recipe.Preset(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := pipeline.Options{Recipe: rc.Clone()}
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, opts, chi.URLParam(r, "format"))
}

func (s *server) handlePattern(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{Recipe: recipe.Recipe{Pattern: chi.URLParam(r, "pattern")}}
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, opts, chi.URLParam(r, "format"))
}

// render runs the pipeline for a single format and writes the artifact.
func (s *server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	if err := recipe.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Recipe.Formats = []string{format}
	opts.Logger = loggerFromContext(r.Context())
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Recipe.Steps > s.cfg.maxSteps {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "steps must be at most %d", s.cfg.maxSteps))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.timeout)
	defer cancel()

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Pattern-Hash", result.SnapshotHash)
	w.Write(result.Artifacts[format])
}

// fail writes a coded error as JSON.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", contentTypes[recipe.FormatJSON])
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": errors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGeometry, errors.ErrCodeInvalidShape,
		errors.ErrCodeInvalidPattern, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidRecipe:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// applyQuery copies query parameters onto the options.
func applyQuery(opts *pipeline.Options, q url.Values) error {
	rc := &opts.Recipe
	strs := map[string]*string{
		"shape":        &rc.Shape,
		"distribution": &rc.Distribution,
		"matcher":      &rc.Matcher,
	}
	for name, dst := range strs {
		if v := q.Get(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"segments": &rc.Segments,
		"depth":    &rc.Depth,
		"points":   &rc.Points,
		"steps":    &rc.Steps,
	}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"value":  &rc.Value,
		"width":  &rc.Width,
		"height": &rc.Height,
		"dt":     &rc.DT,
		"scale":  &opts.Scale,
		"stroke": &opts.Stroke,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"bodies":   &opts.Bodies,
		"detailed": &opts.Detailed,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
			}
			*dst = b
		}
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter seed")
		}
		rc.Seed = seed
	}
	return nil
}
