// Package frame turns raw device chunks into sensor values.
//
// A chunk is scanned for the record delimiter by [Extract]. The resulting
// text is handed to a [Parser], which picks the first segment of the form
// "t<temperature>,h<humidity>" and converts both tokens. A frame either
// yields both values or nothing.
package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bft-labs/climalog/internal/domain"
)

// Default field layout of a record.
const (
	DefaultSeparator         = ','
	DefaultTemperaturePrefix = "t"
	DefaultHumidityPrefix    = "h"
)

// Parser extracts a temperature/humidity pair from frame text.
type Parser struct {
	Delimiter         byte
	Separator         byte
	TemperaturePrefix string
	HumidityPrefix    string
}

// DefaultParser returns a Parser using the default wire layout.
func DefaultParser() Parser {
	return Parser{
		Delimiter:         DefaultDelimiter,
		Separator:         DefaultSeparator,
		TemperaturePrefix: DefaultTemperaturePrefix,
		HumidityPrefix:    DefaultHumidityPrefix,
	}
}

// Parse returns the values of the first qualifying segment of text.
// A segment qualifies when its first two separator-delimited fields are
// both longer than one byte; later segments are ignored even if the
// chosen one fails to convert. Errors wrap domain.ErrMalformedFrame.
func (p Parser) Parse(text string) (temperature int8, humidity uint8, err error) {
	tempTok, humTok, found := p.firstPair(text)
	if !found {
		return 0, 0, fmt.Errorf("%w: no qualifying segment in %q", domain.ErrMalformedFrame, text)
	}

	t, err := strconv.ParseInt(strings.TrimPrefix(tempTok, p.TemperaturePrefix), 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: temperature %q: %v", domain.ErrMalformedFrame, tempTok, err)
	}
	h, err := strconv.ParseUint(strings.TrimPrefix(humTok, p.HumidityPrefix), 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: humidity %q: %v", domain.ErrMalformedFrame, humTok, err)
	}

	return int8(t), uint8(h), nil
}

func (p Parser) firstPair(text string) (string, string, bool) {
	for _, segment := range strings.Split(text, string(p.Delimiter)) {
		fields := strings.Split(segment, string(p.Separator))
		if len(fields) < 2 {
			continue
		}
		if len(fields[0]) > 1 && len(fields[1]) > 1 {
			return fields[0], fields[1], true
		}
	}
	return "", "", false
}
