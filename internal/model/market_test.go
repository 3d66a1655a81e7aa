package model

import (
	"errors"
	"testing"

	"github.com/ctorgovnik/FINM32500-assignment8/pkg/exception"
)

func TestParsePriceUpdate(t *testing.T) {
	update, err := ParsePriceUpdate([]byte("AAPL,172.53,1696180200.5*"), '*')
	if err != nil {
		t.Fatalf("parse: %+v", err)
	}
	want := PriceUpdate{Symbol: "AAPL", Price: 172.53, Timestamp: 1696180200.5}
	if update != want {
		t.Fatalf("got %+v want %+v", update, want)
	}
}

func TestParsePriceUpdateWithoutDelimiter(t *testing.T) {
	if _, err := ParsePriceUpdate([]byte("AAPL,172.53,1696180200.5"), '*'); err != nil {
		t.Fatalf("bare payload should parse: %+v", err)
	}
}

func TestParsePriceUpdateFieldCount(t *testing.T) {
	if _, err := ParsePriceUpdate([]byte("AAPL,172.53*"), '*'); !errors.Is(err, exception.ErrFieldCount) {
		t.Fatalf("got %v, want ErrFieldCount", err)
	}
}

func TestParseSentimentUpdate(t *testing.T) {
	update, err := ParseSentimentUpdate([]byte("AAPL,67*"), '*')
	if err != nil {
		t.Fatalf("parse: %+v", err)
	}
	if update.Symbol != "AAPL" || update.Sentiment != 67 {
		t.Fatalf("got %+v", update)
	}
}

func TestParseSentimentUpdateRange(t *testing.T) {
	for _, payload := range []string{"AAPL,-1*", "AAPL,101*"} {
		if _, err := ParseSentimentUpdate([]byte(payload), '*'); !errors.Is(err, exception.ErrSentimentRange) {
			t.Fatalf("%s: got %v, want ErrSentimentRange", payload, err)
		}
	}
}
