package commands

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNumberFormat 数值参数不是普通十进制写法
var ErrNumberFormat = errors.New("not a plain decimal number")

// decimalPattern 只接受十进制小数和指数写法，拒绝 NaN、Inf 和十六进制
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Params 一次命令调用的参数
type Params struct {
	command string
	values  []string
}

// NewParams 包装命令参数
func NewParams(command string, values []string) Params {
	return Params{command: command, values: values}
}

// Len 参数个数
func (p Params) Len() int { return len(p.values) }

// Raw 原始参数
func (p Params) Raw() []string { return p.values }

// Has 第 i 个参数是否存在
func (p Params) Has(i int) bool { return i >= 0 && i < len(p.values) }

// Arity 检查参数个数在 [min, max] 内
func (p Params) Arity(min, max int) error {
	if len(p.values) < min || len(p.values) > max {
		return p.errorf(ErrArity)
	}
	return nil
}

// Arg 第 i 个参数（去除首尾空白），不存在时返回空字符串
func (p Params) Arg(i int) string {
	if !p.Has(i) {
		return ""
	}
	return strings.TrimSpace(p.values[i])
}

// Name 第 i 个参数作为名称使用：脚本里用下划线表示空格
func (p Params) Name(i int) string {
	return strings.TrimSpace(strings.ReplaceAll(p.Arg(i), "_", " "))
}

// Float 解析第 i 个参数为浮点数，不存在时返回 def
// 始终使用 '.' 作为小数点，与系统区域设置无关；结果必须是有限值
func (p Params) Float(i int, def float64) (float64, error) {
	if !p.Has(i) {
		return def, nil
	}
	return p.parseFloat(p.Arg(i))
}

func (p Params) parseFloat(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, p.errorf(fmt.Errorf("%q: %w", s, ErrNumberFormat))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, p.errorf(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.errorf(fmt.Errorf("%q: %w", s, ErrNumberFormat))
	}
	return v, nil
}

func (p Params) errorf(err error) error {
	return &ParamError{Command: p.command, Params: p.values, Err: err}
}

// Command 命令名
func (p Params) Command() string { return p.command }

// Wrap 为查找失败等错误附上命令名
func (p Params) Wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("a %s command failed: %w", p.command, err)
}
