package api

import (
	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/auth/mock"
)

func flowOf(operator *mock.Operator) flow.Flow {
	return flow.NewTerminalFlow(operator, operator)
}
