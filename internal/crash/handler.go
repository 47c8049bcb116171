package crash

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"reprasp/internal/logger"
)

// RecoverWithStack recovers a panic and logs it with the stack trace.
func RecoverWithStack(moduleName string) {
	if r := recover(); r != nil {
		report("PANIC", moduleName, r)
	}
}

// RecoverWithStackAndExit is deferred in main; it logs the panic and exits
// with a non-zero status so the supervisor restarts the process.
func RecoverWithStackAndExit(moduleName string) {
	if r := recover(); r != nil {
		report("FATAL PANIC", moduleName, r)
		logger.Sync()
		time.Sleep(time.Second)
		os.Exit(1)
	}
}

// SafeGoroutine starts fn in a goroutine that cannot take the process down.
func SafeGoroutine(name string, fn func()) {
	go func() {
		defer RecoverWithStack(fmt.Sprintf("goroutine-%s", name))
		fn()
	}()
}

// Guard runs fn and turns a panic into an error.
func Guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report("PANIC", name, r)
			err = fmt.Errorf("panic in %s: %v", name, r)
		}
	}()
	return fn()
}

func report(kind, moduleName string, r interface{}) {
	stack := debug.Stack()

	logger.Errorf("%s in %s: %v", kind, moduleName, r)
	logger.Errorf("Stack trace:\n%s", string(stack))

	// stderr too, so it shows up in container logs
	fmt.Fprintf(os.Stderr, "[%s] %s - %s: %v\n", kind, time.Now().Format("2006-01-02 15:04:05"), moduleName, r)
	fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(stack))

	logRuntimeInfo()
}

func logRuntimeInfo() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := fmt.Sprintf(`
Runtime Information:
- Go version: %s
- Number of CPUs: %d
- Number of goroutines: %d
- Memory stats:
  - Heap allocated: %d KB
  - Heap in use: %d KB
  - Stack in use: %d KB
  - Num GC: %d
`,
		runtime.Version(),
		runtime.NumCPU(),
		runtime.NumGoroutine(),
		bToKb(m.HeapAlloc),
		bToKb(m.HeapInuse),
		bToKb(m.StackInuse),
		m.NumGC,
	)

	logger.Error(info)
}

func bToKb(b uint64) uint64 {
	return b / 1024
}
