package commands

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand 没有注册该名称的命令
var ErrUnknownCommand = errors.New("unknown command")

// ErrArity 参数数量不对
var ErrArity = errors.New("wrong number of parameters")

// ParamError 命令参数错误（数量不对或数值无法解析）
// 返回 ParamError 时命令没有做任何修改
type ParamError struct {
	Command string
	Params  []string
	Err     error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("a %s command failed, its parameters were [%s]: %v",
		e.Command, strings.Join(e.Params, ", "), e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}
