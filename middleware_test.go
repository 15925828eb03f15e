package bfront_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advdv/bfront"
	"github.com/advdv/bfront/internal/example"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type ctxKeyFoo struct{}

func TestWrapWithoutMiddleware(t *testing.T) {
	hdlr1 := bfront.BareHandlerFunc(func(bfront.ResponseWriter, *http.Request) error {
		return nil
	})

	hdlr2 := bfront.Wrap(hdlr1)
	require.Equal(t, fmt.Sprint(hdlr1), fmt.Sprint(hdlr2)) // compare addrs
}

func TestWrapOrder(t *testing.T) {
	var res string
	hdlr1 := bfront.BareHandlerFunc(func(_ bfront.ResponseWriter, r *http.Request) error {
		res += fmt.Sprintf("inner %v", r.Context().Value(ctxKeyFoo{}))

		_, ok := r.Context().Deadline()
		require.True(t, ok)
		require.NotNil(t, example.Log(r.Context()))

		return errors.New("inner error")
	})

	wrapping := func(name string) bfront.Middleware {
		return func(n bfront.BareHandler) bfront.BareHandler {
			return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
				res += name + "("
				err := n.ServeBareBHTTP(w, r)
				res += ")" + name

				return fmt.Errorf("%s(%w)", name, err)
			})
		}
	}

	mw3 := func(n bfront.BareHandler) bfront.BareHandler {
		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyFoo{}, "bar"))

			res += "3("
			err := n.ServeBareBHTTP(w, r)
			res += ")3"

			return fmt.Errorf("3(%w)", err)
		})
	}

	ctx, cancel := context.WithTimeout(t.Context(), time.Second*10)
	defer cancel()

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctx)

	w := bfront.NewResponseWriter(rec, -1)
	defer w.Free()

	err := bfront.Wrap(hdlr1, example.Middleware(slog.Default()), mw3, wrapping("2"), wrapping("1")).ServeBareBHTTP(w, req)
	require.Equal(t, "3(2(1(inner bar)1)2)3", res)
	require.EqualError(t, err, `3(2(1(inner error)))`)
}

func TestRecoverAndReset(t *testing.T) {
	hdlr1 := bfront.Wrap(
		bfront.BareHandlerFunc(func(w bfront.ResponseWriter, _ *http.Request) error {
			w.Header().Set("X-Foo", "bar")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, "some body") // this will be reset

			panic("some panic")
		}),
		Errorer(),
		Recoverer(),
	)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	bfront.ToStd(hdlr1, -1, bfront.NewTestLogger(t)).ServeHTTP(rec, req)

	require.Equal(t, http.Header{
		"Content-Type":           {"text/plain; charset=utf-8"},
		"X-Content-Type-Options": {"nosniff"},
	}, rec.Header())
	require.Equal(t, `recovered: some panic`+"\n", rec.Body.String())
}

// Errorer middleware will reset the buffered response, and return a server error.
func Errorer() bfront.Middleware {
	return func(next bfront.BareHandler) bfront.BareHandler {
		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) error {
			err := next.ServeBareBHTTP(w, r)
			if err != nil {
				w.Reset()
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}

			return nil
		})
	}
}

// Recoverer middleware. It will recover any panics and turn it into an error.
func Recoverer() bfront.Middleware {
	return func(next bfront.BareHandler) bfront.BareHandler {
		return bfront.BareHandlerFunc(func(w bfront.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if e := recover(); e != nil {
					err = fmt.Errorf("recovered: %v", e)
				}
			}()

			return next.ServeBareBHTTP(w, r)
		})
	}
}
