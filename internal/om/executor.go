package om

import (
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
)

// Executor receives every order the router accepts. Real exchange
// execution lives outside this system.
type Executor interface {
	Execute(order model.Order) error
}

// LogExecutor is the pass-through execution stub.
type LogExecutor struct{}

func (LogExecutor) Execute(order model.Order) error {
	logs.Infof("executing order: %s", order)
	return nil
}
