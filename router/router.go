// Package router implements a [bfront.Router] on top of the chi routing tree. Routes map a method and path
// pattern to a handler name and default parameters.
package router

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/advdv/bfront"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// DefaultBodyLimit is the largest request body that is decoded into post parameters.
const DefaultBodyLimit = 1 << 20

// Route describes a single route.
type Route struct {
	Name     string
	Method   string
	Pattern  string
	Handler  string
	Defaults bfront.Params
}

// Router resolves http requests to dispatch requests.
type Router struct {
	tree      *chi.Mux
	byPattern map[string]map[string]*Route
	byName    map[string]*Route
	routes    []*Route
	bodyLimit int64
}

// New inits an empty router.
func New() *Router {
	return &Router{
		tree:      chi.NewRouter(),
		byPattern: make(map[string]map[string]*Route),
		byName:    make(map[string]*Route),
		bodyLimit: DefaultBodyLimit,
	}
}

// SetBodyLimit changes the largest body that is decoded into post parameters. Larger bodies are left alone.
func (rt *Router) SetBodyLimit(n int64) {
	rt.bodyLimit = n
}

// Add registers a route. The pattern is "[METHOD ]/path/{param}", without a method the route matches every
// method. The optional name makes the route reversible.
func (rt *Router) Add(pattern, handler string, defaults bfront.Params, name ...string) error {
	method, path := splitPattern(pattern)
	if !strings.HasPrefix(path, "/") {
		return errors.Newf("pattern %q must begin with '/'", pattern)
	}

	if method != "" && !slices.Contains(methods, method) {
		return errors.Newf("pattern %q has unsupported method %q", pattern, method)
	}

	if handler == "" {
		return errors.Newf("route %q has no handler", pattern)
	}

	route := &Route{Method: method, Pattern: path, Handler: handler, Defaults: defaults.Clone()}
	if len(name) > 0 && name[0] != "" {
		if _, exists := rt.byName[name[0]]; exists {
			return errors.Newf("route with name %q already exists", name[0])
		}

		route.Name = name[0]
	}

	byMethod, ok := rt.byPattern[path]
	if !ok {
		byMethod = make(map[string]*Route)
		rt.byPattern[path] = byMethod
	}

	if _, exists := byMethod[method]; exists {
		return errors.Newf("route %q already exists", pattern)
	}

	if err := rt.insert(method, path); err != nil {
		return err
	}

	byMethod[method] = route
	if route.Name != "" {
		rt.byName[route.Name] = route
	}

	rt.routes = append(rt.routes, route)
	return nil
}

// insert adds the path to the routing tree, which panics on malformed patterns.
func (rt *Router) insert(method, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("invalid pattern %q: %v", path, r)
		}
	}()

	if method == "" {
		rt.tree.Handle(path, http.NotFoundHandler())
	} else {
		rt.tree.Method(method, path, http.NotFoundHandler())
	}

	return nil
}

// MustAdd is a convenience method that panics if adding the route fails.
func (rt *Router) MustAdd(pattern, handler string, defaults bfront.Params, name ...string) {
	if err := rt.Add(pattern, handler, defaults, name...); err != nil {
		panic("router: " + err.Error())
	}
}

// Routes returns the routes in the order they were added.
func (rt *Router) Routes() []Route {
	out := make([]Route, 0, len(rt.routes))
	for _, r := range rt.routes {
		out = append(out, *r)
	}
	return out
}

// Match implements [bfront.Router]. Query values are overwritten by the route defaults, which are overwritten by
// the path parameters. JSON and form bodies become the post parameters of the request.
func (rt *Router) Match(r *http.Request) *bfront.Request {
	rctx := chi.NewRouteContext()

	pattern := rt.tree.Find(rctx, r.Method, r.URL.Path)
	if pattern == "" {
		return nil
	}

	route := rt.byPattern[pattern][r.Method]
	if route == nil {
		route = rt.byPattern[pattern][""]
	}

	if route == nil {
		return nil
	}

	params := bfront.Params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	for k, v := range route.Defaults {
		params[k] = v
	}

	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}

	req := bfront.NewRequest(route.Handler, bfront.IntentNormal, params).WithMethod(r.Method)

	post, err := rt.postParams(r)
	if err != nil || len(post) == 0 {
		return req
	}

	return req.WithPost(post)
}

// postParams decodes the request body. The body is restored so later stages can read it again.
func (rt *Router) postParams(r *http.Request) (bfront.Params, error) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength > rt.bodyLimit {
		return nil, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json", "application/x-www-form-urlencoded":
	default:
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, rt.bodyLimit+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read body")
	}

	// bodies of unknown length are only known to be too large after reading past the limit
	if int64(len(data)) > rt.bodyLimit {
		r.Body = readCloser{io.MultiReader(bytes.NewReader(data), r.Body), r.Body}
		return nil, nil
	}

	r.Body = io.NopCloser(bytes.NewReader(data))

	post := bfront.Params{}
	if mediaType == "application/json" {
		res := gjson.ParseBytes(data)
		if !res.IsObject() {
			return nil, nil
		}

		res.ForEach(func(key, value gjson.Result) bool {
			post[key.String()] = value.Value()
			return true
		})

		return post, nil
	}

	form, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse form body")
	}

	for k, v := range form {
		if len(v) > 0 {
			post[k] = v[0]
		}
	}

	return post, nil
}

var methods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

func splitPattern(pattern string) (method, path string) {
	pattern = strings.TrimSpace(pattern)
	if idx := strings.IndexByte(pattern, ' '); idx >= 0 {
		return strings.ToUpper(pattern[:idx]), strings.TrimSpace(pattern[idx+1:])
	}

	return "", pattern
}

var _ bfront.Router = &Router{}

type readCloser struct {
	io.Reader
	io.Closer
}
