package http

import (
	"bufio"
	"bytes"
	"io"

	"rawhttp/application/util/rule"

	"github.com/pkg/errors"
)

// ErrLineBreakInLine is returned when a request line or field line would carry
// a CR or LF of its own and so split into several lines on the wire.
var ErrLineBreakInLine = errors.New("line contains CR or LF")

type EncodeOptions struct {
	// UseSoleLF specifies wheter a single LF character should be used as a line terminator.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
	UseSoleLF bool
}

var DefaultEncodeOptions = EncodeOptions{
	UseSoleLF: false,
}

type RequestEncoder struct {
	bw   *bufio.Writer
	opts EncodeOptions
}

func NewRequestEncoder(w io.Writer, opts EncodeOptions) *RequestEncoder {
	return &RequestEncoder{bw: bufio.NewWriter(w), opts: opts}
}

func (re *RequestEncoder) Encode(request Request) error {
	if err := re.encodeRequestLine(request.requestLine); err != nil {
		return errors.Wrap(err, "encoding request line")
	}

	if err := re.encodeHeaders(request.Headers); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	if _, err := re.bw.Write(request.Body); err != nil {
		return errors.Wrap(err, "writing request body")
	}

	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request")
	}

	return nil
}

func (re *RequestEncoder) encodeRequestLine(reqLine requestLine) error {
	buf := bytes.NewBuffer(nil)

	buf.WriteString(reqLine.Method)
	buf.WriteByte(rule.SP)
	buf.WriteString(reqLine.Target)
	buf.WriteByte(rule.SP)
	buf.Write(reqLine.Version.Text())

	if err := re.writeLine(buf.Bytes()); err != nil {
		return errors.Wrap(err, "writing line")
	}

	return nil
}

func (re *RequestEncoder) encodeHeaders(headers []Field) error {
	for _, field := range headers {
		if err := re.writeLine(field.Text()); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Write a empty line as all the headers are written.
	if err := re.writeLine(nil); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

func (re *RequestEncoder) writeLine(line []byte) error {
	if bytes.ContainsAny(line, "\r\n") {
		return errors.Wrapf(ErrLineBreakInLine, "%q", line)
	}

	if _, err := re.bw.Write(line); err != nil {
		return errors.Wrap(err, "writing line")
	}

	term := rule.CRLF
	if re.opts.UseSoleLF {
		term = term[1:]
	}

	if _, err := re.bw.Write(term); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

// EncodeRequest renders request into memory.
func EncodeRequest(request Request, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewRequestEncoder(&buf, opts).Encode(request); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
