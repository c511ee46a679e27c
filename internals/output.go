package internals

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output defines a uniform interface to write to some stream
type Output interface {
	Print(text string) (int, error)
	Println(text string) (int, error)
	Printf(format string, args ...interface{}) (int, error)
	Printfln(format string, args ...interface{}) (int, error)
}

// plainOutput is a specific Output device which writes data in a raw format
type plainOutput struct {
	device io.Writer
}

// NewPlainOutput returns an Output writing text unchanged to w
func NewPlainOutput(w io.Writer) Output {
	return &plainOutput{device: w}
}

func (o *plainOutput) Print(text string) (int, error) {
	return o.device.Write([]byte(text))
}

func (o *plainOutput) Println(text string) (int, error) {
	n1, err1 := o.device.Write([]byte(text))
	if err1 != nil {
		return n1, err1
	}
	n2, err2 := o.device.Write([]byte{'\n'})
	return n1 + n2, err2
}

func (o *plainOutput) Printf(format string, args ...interface{}) (int, error) {
	return o.device.Write([]byte(fmt.Sprintf(format, args...)))
}

func (o *plainOutput) Printfln(format string, args ...interface{}) (int, error) {
	return o.device.Write([]byte(fmt.Sprintf(format+"\n", args...)))
}

// colorOutput writes all text in one color. Escape sequences are
// omitted if color.NoColor is set, which is the case whenever the
// standard output is not a terminal.
type colorOutput struct {
	device io.Writer
	c      *color.Color
}

// NewColorOutput returns an Output writing text to w with the given attributes
func NewColorOutput(w io.Writer, attrs ...color.Attribute) Output {
	return &colorOutput{device: w, c: color.New(attrs...)}
}

func (o *colorOutput) Print(text string) (int, error) {
	return o.c.Fprint(o.device, text)
}

func (o *colorOutput) Println(text string) (int, error) {
	return o.c.Fprintln(o.device, text)
}

func (o *colorOutput) Printf(format string, args ...interface{}) (int, error) {
	return o.c.Fprintf(o.device, format, args...)
}

func (o *colorOutput) Printfln(format string, args ...interface{}) (int, error) {
	return o.c.Fprintf(o.device, format+"\n", args...)
}

// Operator bundles the output devices used to talk to the operator.
// Out and Err are mandatory; the remaining devices default to them.
type Operator struct {
	Out     Output
	Err     Output
	Heading Output
	Success Output
	Failure Output
}

// NewPlainOperator returns an Operator without any coloring
func NewPlainOperator(stdout, stderr io.Writer) Operator {
	return Operator{Out: NewPlainOutput(stdout), Err: NewPlainOutput(stderr)}.withDefaults()
}

// NewColorOperator returns an Operator highlighting headings, deletions and failures
func NewColorOperator(stdout, stderr io.Writer) Operator {
	return Operator{
		Out:     NewPlainOutput(stdout),
		Err:     NewPlainOutput(stderr),
		Heading: NewColorOutput(stdout, color.Bold),
		Success: NewColorOutput(stdout, color.FgGreen),
		Failure: NewColorOutput(stderr, color.FgRed),
	}
}

func (o Operator) withDefaults() Operator {
	if o.Heading == nil {
		o.Heading = o.Out
	}
	if o.Success == nil {
		o.Success = o.Out
	}
	if o.Failure == nil {
		o.Failure = o.Err
	}
	return o
}
