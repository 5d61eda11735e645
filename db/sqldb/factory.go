package sqldb

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ClientFactory is a callback that constructs a Client from Conf.
// It is registered with RegisterFactory and called by sqldb.New.
type ClientFactory func(conf *Conf, log *zap.Logger) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ClientFactory{}
)

func RegisterFactory(dbType string, factory ClientFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[dbType] = factory
}

func New(conf *Conf, log *zap.Logger) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[conf.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %q (registered: %v)", conf.Type, RegisteredTypes())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return factory(conf, log)
}

func RegisteredTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
