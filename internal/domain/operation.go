package domain

import "fmt"

// Operation is one of the binary operations the calculate tool accepts.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
)

// Operations returns the closed set of calculator operations.
func Operations() []Operation {
	return []Operation{OperationAdd, OperationSubtract, OperationMultiply, OperationDivide}
}

// ParseOperation validates s against the closed operation set.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations() {
		if s == string(op) {
			return op, nil
		}
	}
	return "", E(CodeInvalidArgument, "",
		fmt.Sprintf("unknown operation %q", s), ErrInvalidArguments)
}
