// Package aliasreg keeps the local bindings between human-chosen alias
// names and the locator URLs they point at. A binding is keyed by the
// one-way hash of the alias's top-level label, so looking one up from an
// alias URL needs no knowledge of the original name.
package aliasreg

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sigil-net/sigil/internal/keyValStore"
	"github.com/sigil-net/sigil/pkg/locator"
	"github.com/sigil-net/sigil/pkg/types"
)

var aliasKeyPrefix = []byte("a/")

// Entry is one stored alias binding. Version counts successful updates to
// the same name, starting at zero.
type Entry struct {
	Name    string `json:"name"`
	Target  string `json:"target"`
	Version uint64 `json:"version"`
}

type Registry struct {
	kv  *keyValStore.KeyValStore
	log *logrus.Logger
}

func New(kv *keyValStore.KeyValStore, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}
	return &Registry{kv: kv, log: log}
}

// Register binds name to target, bumping the version if the name is
// already bound. It returns the alias-form Locator for the name, carrying
// the new version in its reserved query key.
func (r *Registry) Register(name string, target *locator.Locator) (*locator.Locator, error) {
	aliasLoc, err := locator.NewAlias(name, locator.AliasMapTypeTag, locator.PublicSeqLedger, locator.AliasMapContainer)
	if err != nil {
		return nil, err
	}

	version := uint64(0)
	if existing, err := r.lookup(aliasLoc.Hash()); err == nil {
		version = existing.Version + 1
	} else if !keyValStore.IsNotFound(err) {
		return nil, err
	}

	entry := Entry{
		Name:    name,
		Target:  target.String(),
		Version: version,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("error encoding alias entry for %q: %w", name, err)
	}
	if err := r.kv.Write(aliasKey(aliasLoc.Hash()), raw); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"name":    name,
		"target":  entry.Target,
		"version": version,
	}).Debug("registered alias")

	aliasLoc.SetContentVersion(&version)
	return aliasLoc, nil
}

// Resolve follows an alias URL to its bound target Locator. The alias
// URL's path and fragment carry over onto the target; the target keeps its
// own query string.
func (r *Registry) Resolve(rawURL string) (*locator.Locator, error) {
	aliasLoc, err := locator.FromAliasURL(rawURL)
	if err != nil {
		return nil, err
	}

	entry, err := r.lookup(aliasLoc.Hash())
	if err != nil {
		if keyValStore.IsNotFound(err) {
			return nil, fmt.Errorf("no alias registered for %q", aliasLoc.TopLabel())
		}
		return nil, err
	}

	target, err := locator.FromURL(entry.Target)
	if err != nil {
		return nil, fmt.Errorf("alias %q has an unparseable target %q: %w", entry.Name, entry.Target, err)
	}

	if path := aliasLoc.Path(); path != "" {
		target.SetEncodedPath(path)
	}
	if fragment := aliasLoc.Fragment(); fragment != "" {
		target.SetFragment(fragment)
	}

	return target, nil
}

// Entry returns the stored binding for name.
func (r *Registry) Entry(name string) (Entry, error) {
	aliasLoc, err := locator.NewAlias(name, locator.AliasMapTypeTag, locator.PublicSeqLedger, locator.AliasMapContainer)
	if err != nil {
		return Entry{}, err
	}
	entry, err := r.lookup(aliasLoc.Hash())
	if err != nil {
		if keyValStore.IsNotFound(err) {
			return Entry{}, fmt.Errorf("no alias registered for %q", name)
		}
		return Entry{}, err
	}
	return entry, nil
}

// Unregister removes the binding for name. Removing an unknown name is
// not an error.
func (r *Registry) Unregister(name string) error {
	aliasLoc, err := locator.NewAlias(name, locator.AliasMapTypeTag, locator.PublicSeqLedger, locator.AliasMapContainer)
	if err != nil {
		return err
	}
	return r.kv.Delete(aliasKey(aliasLoc.Hash()))
}

func (r *Registry) lookup(hash types.Hash) (Entry, error) {
	raw, err := r.kv.Read(aliasKey(hash))
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("error decoding alias entry %s: %w", hash, err)
	}
	return entry, nil
}

func aliasKey(h types.Hash) []byte {
	return append(append([]byte{}, aliasKeyPrefix...), h[:]...)
}
