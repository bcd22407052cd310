// Package sigil assembles the local content store and alias registry
// behind one handle. The URL codec itself lives in pkg/locator and needs
// no Sigil instance; this package is for callers that also want to store
// content and resolve aliases locally.
package sigil

import (
	"fmt"
	"time"

	"github.com/sigil-net/sigil/internal/keyValStore"
	"github.com/sigil-net/sigil/pkg/aliasreg"
	"github.com/sigil-net/sigil/pkg/store"
)

type Sigil struct {
	Store   *store.Store
	Aliases *aliasreg.Registry

	kv     *keyValStore.KeyValStore
	config Config
	stopGC chan struct{}
}

func New(conf Config) (*Sigil, error) {
	conf.applyDefaults()

	kv, err := keyValStore.NewKeyValStore(keyValStore.StoreConfig{
		Paths:         conf.Paths,
		MinimumFreeGB: conf.MinimumFreeGB,
		Logger:        conf.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating KeyValStore: %w", err)
	}

	s := &Sigil{
		Store:   store.New(kv, conf.DefaultBase, conf.Logger),
		Aliases: aliasreg.New(kv, conf.Logger),
		kv:      kv,
		config:  conf,
		stopGC:  make(chan struct{}),
	}

	go s.runGarbageCollection()

	return s, nil
}

func (s *Sigil) Close() {
	close(s.stopGC)
	s.kv.Close()
}

func (s *Sigil) runGarbageCollection() {
	ticker := time.NewTicker(s.config.GarbageCollectionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.kv.Clean(); err != nil {
				s.config.Logger.Warnf("error during garbage collection: %v", err)
			}
		case <-s.stopGC:
			return
		}
	}
}
