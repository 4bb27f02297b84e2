// Package commands 把脚本发出的命名命令翻译为舞台操作
//
// 每个命令接收字符串参数列表：先校验参数个数并解析数值，
// 任何解析或查找失败都会记录日志并返回错误，不会中断对话推进。
package commands

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Handler 命令处理函数
//
// done 在命令结束时调用。立即完成的命令由 Dispatcher 自动调用 done；
// 需要等待的命令（例如黑幕转场）自己在动画结束后调用。
type Handler func(p Params, done func()) error

// Dispatcher 命令分发器
type Dispatcher struct {
	handlers map[string]entry
}

type entry struct {
	handler  Handler
	blocking bool
}

// NewDispatcher 创建空的命令分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]entry)}
}

// Register 注册立即完成的命令
func (d *Dispatcher) Register(name string, fn func(p Params) error) {
	d.handlers[name] = entry{
		handler: func(p Params, _ func()) error { return fn(p) },
	}
}

// RegisterBlocking 注册需要等待完成的命令
// 处理函数返回 nil 时必须在之后调用 done
func (d *Dispatcher) RegisterBlocking(name string, fn Handler) {
	d.handlers[name] = entry{handler: fn, blocking: true}
}

// Has 是否注册了该命令
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

// Names 已注册的命令名（排序）
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch 执行命令
//
// onComplete 只会被调用一次：立即完成的命令和失败的命令在返回前调用，
// 等待型命令在处理函数调用 done 时调用。失败不会阻塞脚本。
func (d *Dispatcher) Dispatch(name string, params []string, onComplete func()) error {
	var once sync.Once
	done := func() {
		once.Do(func() {
			if onComplete != nil {
				onComplete()
			}
		})
	}

	e, ok := d.handlers[name]
	if !ok {
		err := fmt.Errorf("%s: %w", name, ErrUnknownCommand)
		log.Printf("[Commands] %v", err)
		done()
		return err
	}

	if err := e.handler(NewParams(name, params), done); err != nil {
		log.Printf("[Commands] %v", err)
		done()
		return err
	}

	if !e.blocking {
		done()
	}
	return nil
}
