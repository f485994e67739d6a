package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed request detected before reaching the domain.
// Its message is sent to the client as is.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// readBody returns the request body. Bodies over maxBodyBytes fail with
// *http.MaxBytesError.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return data, nil
}

// pathID parses the {id} wildcard as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("ID inválido")
	}
	return id, nil
}

// Money is rendered as a two-decimal string, the way NUMERIC columns reach
// JSON clients.
func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Str(d.StringFixed(2))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

// decodeString reads a JSON string, accepting null as "".
func decodeString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

// decodeInt64 accepts a JSON integer or a string holding one.
func decodeInt64(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return 0, err
		}
		if !n.IsInt() {
			return 0, errors.New("not an integer")
		}
		return n.Int64()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	default:
		if err := d.Skip(); err != nil {
			return 0, err
		}
		return 0, errors.New("not an integer")
	}
}

// decodeDecimal accepts a JSON number or a numeric string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(n.String())
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(strings.TrimSpace(s))
	default:
		if err := d.Skip(); err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, errors.New("not a number")
	}
}
