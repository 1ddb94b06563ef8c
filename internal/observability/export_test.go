package observability

import "sync"

func resetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}
