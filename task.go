package pool

// job is a type-erased unit of work: a closure taking no arguments.
type job func()

// message is what flows through the pool's task queue: either a
// shutdown signal or a task to run.
type message struct {
	quit bool
	task job
	wait *WaitGroup
}

func quitMessage() message {
	return message{quit: true}
}

func taskMessage(j job, wg *WaitGroup) message {
	return message{task: j, wait: wg}
}
