// Package directory keeps the contract catalogs the upstream publishes after
// login. Each catalog has its own lock.
package directory

import (
	"sort"
	"sync"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/model"
	"feedbridge/internal/translate"

	"github.com/yanun0323/logs"
)

// indexCategory marks index entries in the stock catalog.
const indexCategory = "00"

// Directory is a code-keyed contract catalog for one security type.
type Directory struct {
	securityType enum.SecurityType

	mu        sync.RWMutex
	contracts map[string]broker.Contract
}

func New(securityType enum.SecurityType) *Directory {
	return &Directory{
		securityType: securityType,
		contracts:    make(map[string]broker.Contract),
	}
}

// Fill replaces the catalog with the grouped contracts and returns the number
// kept. Stock index entries are skipped.
func (d *Directory) Fill(groups [][]broker.Contract) int {
	contracts := make(map[string]broker.Contract)
	for _, group := range groups {
		for _, c := range group {
			if d.securityType == enum.SecurityStock && c.Category == indexCategory {
				continue
			}
			if c.Code == "" {
				continue
			}
			if !c.SecurityType.IsAvailable() {
				c.SecurityType = d.securityType
			}
			contracts[c.Code] = c
		}
	}

	d.mu.Lock()
	d.contracts = contracts
	d.mu.Unlock()

	logs.Infof("%s directory filled, total: %d", d.securityType, len(contracts))
	return len(contracts)
}

func (d *Directory) Lookup(code string) (broker.Contract, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.contracts[code]
	return c, ok
}

// All lists the catalog sorted by code.
func (d *Directory) All() []model.Contract {
	d.mu.RLock()
	out := make([]model.Contract, 0, len(d.contracts))
	for _, c := range d.contracts {
		out = append(out, translate.Contract(c))
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.contracts)
}

func (d *Directory) SecurityType() enum.SecurityType {
	return d.securityType
}

// Set groups the three tradable catalogs.
type Set struct {
	Stocks  *Directory
	Futures *Directory
	Options *Directory
}

func NewSet() *Set {
	return &Set{
		Stocks:  New(enum.SecurityStock),
		Futures: New(enum.SecurityFuture),
		Options: New(enum.SecurityOption),
	}
}

// Load fills every catalog from the upstream listing.
func (s *Set) Load(contracts broker.Contracts) {
	s.Stocks.Fill(contracts.Stocks)
	s.Futures.Fill(contracts.Futures)
	s.Options.Fill(contracts.Options)
}

// Resolve looks a code up in futures, then options, then stocks.
func (s *Set) Resolve(code string) (broker.Contract, bool) {
	for _, d := range []*Directory{s.Futures, s.Options, s.Stocks} {
		if c, ok := d.Lookup(code); ok {
			return c, true
		}
	}
	return broker.Contract{}, false
}
