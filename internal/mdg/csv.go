package mdg

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/yanun0323/errors"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

// CSVProvider streams market data frames from a CSV file with symbol,
// price and timestamp columns. Field text passes through to the wire
// unmodified. The provider is finite: after the last row it reports
// exhaustion and closes the file.
type CSVProvider struct {
	file   *os.File
	reader *csv.Reader
	delim  byte

	symbolCol    int
	priceCol     int
	timestampCol int
	done         bool
}

// NewCSVProvider opens the file and resolves the header columns.
func NewCSVProvider(path string, delim byte) (*CSVProvider, error) {
	if delim == 0 {
		delim = wire.DefaultDelimiter
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open market data file")
	}
	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "read csv header")
	}

	provider := &CSVProvider{file: file, reader: reader, delim: delim, symbolCol: -1, priceCol: -1, timestampCol: -1}
	for i, name := range header {
		switch name {
		case "symbol":
			provider.symbolCol = i
		case "price":
			provider.priceCol = i
		case "timestamp":
			provider.timestampCol = i
		}
	}
	if provider.symbolCol < 0 || provider.priceCol < 0 || provider.timestampCol < 0 {
		_ = file.Close()
		return nil, errors.New("csv provider: header must contain symbol, price and timestamp")
	}
	return provider, nil
}

func (p *CSVProvider) Next() ([]byte, error) {
	if p.done {
		return nil, exception.ErrExhausted
	}
	record, err := p.reader.Read()
	if err != nil {
		p.done = true
		_ = p.file.Close()
		if err == io.EOF {
			return nil, exception.ErrExhausted
		}
		return nil, errors.Wrap(err, "read csv row")
	}
	return wire.Frame(wire.JoinFields(
		record[p.symbolCol],
		record[p.priceCol],
		record[p.timestampCol],
	), p.delim), nil
}

// Close releases the file early. Safe after exhaustion.
func (p *CSVProvider) Close() error {
	if p.done {
		return nil
	}
	p.done = true
	return p.file.Close()
}
