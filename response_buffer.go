package bfront

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when a write would grow the buffer past its limit.
var ErrBufferFull = errors.New("bfront: buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is a [ResponseWriter] that holds headers, status and body in memory until it is flushed.
type ResponseBuffer struct {
	resp   http.ResponseWriter
	buf    *bytes.Buffer
	header http.Header
	status int
	limit  int

	wroteBody bool
	flushed   bool
}

// NewResponseWriter inits a buffered response writer on top of resp. A negative limit disables the limit.
func NewResponseWriter(resp http.ResponseWriter, limit int) ResponseWriter {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		buf:    buf,
		header: http.Header{},
		limit:  limit,
	}
}

// Header returns the buffered headers, or the underlying headers once the response was flushed.
func (w *ResponseBuffer) Header() http.Header {
	if w.flushed {
		return w.resp.Header()
	}
	return w.header
}

// WriteHeader records the status code. It can be changed until the first body write.
func (w *ResponseBuffer) WriteHeader(status int) {
	if w.flushed || w.wroteBody {
		return
	}
	w.status = status
}

// Write buffers p. It fails with [ErrBufferFull] without writing anything if p does not fit.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, ErrBufferFull
	}

	w.wroteBody = true
	return w.buf.Write(p)
}

// Reset discards everything that was buffered. It panics when part of the response was already flushed.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("bfront: cannot reset response, it was already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.status = 0
	w.wroteBody = false
}

// FlushError writes the buffer to the underlying writer and flushes that writer if it supports it. It is picked
// up by [http.ResponseController].
func (w *ResponseBuffer) FlushError() error {
	if err := w.FlushBuffer(); err != nil {
		return err
	}

	if err := http.NewResponseController(w.resp).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return errors.Wrap(err, "failed to flush underlying writer")
	}

	return nil
}

// FlushBuffer writes the headers (once) and the buffered body to the underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.flushed {
		dst := w.resp.Header()
		for k, v := range w.header {
			dst[k] = v
		}

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}

		w.resp.WriteHeader(status)
		w.flushed = true
	}

	if w.buf.Len() == 0 {
		return nil
	}

	if _, err := w.resp.Write(w.buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write buffer")
	}

	w.buf.Reset()
	return nil
}

// Free returns the buffer to the pool. The writer must not be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	w.buf.Reset()
	bufPool.Put(w.buf)
	w.buf = nil
}

// Unwrap returns the underlying writer for [http.ResponseController].
func (w *ResponseBuffer) Unwrap() http.ResponseWriter {
	return w.resp
}

var _ ResponseWriter = &ResponseBuffer{}
