package script

import (
	"log"
)

// Dispatcher 执行命名命令
// commands.Dispatcher 满足此接口
type Dispatcher interface {
	Dispatch(name string, params []string, onComplete func()) error
}

// Runner 脚本播放器
//
// 对话行交给 OnLine 后暂停，直到调用 Advance；
// 命令交给 Dispatcher，需要等待的命令在完成回调后才继续。
// 命令失败只记录日志，播放照常继续。
type Runner struct {
	script     *Script
	dispatcher Dispatcher

	// OnLine 显示一句对话
	OnLine func(text string)
	// OnEnd 脚本播放完毕
	OnEnd func()

	pos      int
	running  bool
	finished bool
	showing  bool // 当前对话行正在显示，等待推进
	waiting  bool // 等待阻塞命令完成

	// generation 每次 Stop 递增，旧命令的迟到回调据此忽略
	generation int
}

// NewRunner 创建脚本播放器
func NewRunner(s *Script, dispatcher Dispatcher) *Runner {
	return &Runner{script: s, dispatcher: dispatcher}
}

// Start 从头开始播放
func (r *Runner) Start() {
	r.generation++
	r.pos = 0
	r.running = true
	r.finished = false
	r.showing = false
	r.waiting = false
	log.Printf("[Script] Starting %s (%d steps)", r.script.Name, len(r.script.Steps))
	r.run()
}

// Advance 推进到下一句
// 只有对话行正在显示时才生效，返回是否推进
func (r *Runner) Advance() bool {
	if !r.running || !r.showing {
		return false
	}
	r.showing = false
	r.run()
	return true
}

// Stop 停止播放，之后到达的命令完成回调都会被忽略
func (r *Runner) Stop() {
	if !r.running {
		return
	}
	r.running = false
	r.showing = false
	r.waiting = false
	r.generation++
	log.Printf("[Script] Stopped %s at step %d", r.script.Name, r.pos)
}

// IsRunning 是否正在播放
func (r *Runner) IsRunning() bool {
	return r.running
}

// IsFinished 是否已播放完毕
func (r *Runner) IsFinished() bool {
	return r.finished
}

// IsShowingLine 当前是否停在一句对话上
func (r *Runner) IsShowingLine() bool {
	return r.running && r.showing
}

// IsWaiting 是否在等待阻塞命令完成
func (r *Runner) IsWaiting() bool {
	return r.running && r.waiting
}

// Position 下一个要执行的步骤下标
func (r *Runner) Position() int {
	return r.pos
}

func (r *Runner) run() {
	for r.running && !r.waiting && !r.showing {
		if r.pos >= len(r.script.Steps) {
			r.finish()
			return
		}
		step := r.script.Steps[r.pos]
		r.pos++

		switch step.Kind {
		case StepLine:
			r.showing = true
			if r.OnLine != nil {
				r.OnLine(step.Text)
			}
		case StepCommand:
			r.dispatch(step)
		}
	}
}

func (r *Runner) dispatch(step Step) {
	r.waiting = true
	generation := r.generation
	synchronous := true
	resume := func() {
		if generation != r.generation || !r.waiting {
			return
		}
		r.waiting = false
		if !synchronous {
			r.run()
		}
	}

	if err := r.dispatcher.Dispatch(step.Command, step.Params, resume); err != nil {
		log.Printf("[Script] %s step %d: %v", r.script.Name, r.pos-1, err)
	}
	synchronous = false
}

func (r *Runner) finish() {
	r.running = false
	r.finished = true
	log.Printf("[Script] Finished %s", r.script.Name)
	if r.OnEnd != nil {
		r.OnEnd()
	}
}
