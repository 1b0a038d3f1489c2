// Package contracts holds the trading specifications of domestic futures products.
package contracts

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

//go:embed contracts.yaml
var defaultTable []byte

var vtSymbolPattern = regexp.MustCompile(`^([A-Za-z]{1,2})(\d{3,4})\.([A-Za-z]+)$`)

// Exchange is a futures exchange with its Chinese name.
type Exchange struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Contract is the specification shared by every delivery month of a product.
type Contract struct {
	Product        string  `yaml:"product"`
	Exchange       string  `yaml:"exchange"`
	Name           string  `yaml:"name"`
	Size           float64 `yaml:"size"`
	PriceTick      float64 `yaml:"pricetick"`
	CommissionRate float64 `yaml:"commission_rate"`
}

// Symbol is a parsed vt_symbol such as IF2309.CFFEX.
type Symbol struct {
	Code     string
	Product  string
	Exchange string
}

func (s Symbol) String() string {
	return s.Code + "." + s.Exchange
}

// ParseVtSymbol splits "<product><month>.<exchange>". The exchange is upper-cased,
// the contract code keeps its case.
func ParseVtSymbol(vtSymbol string) (Symbol, error) {
	m := vtSymbolPattern.FindStringSubmatch(strings.TrimSpace(vtSymbol))
	if m == nil {
		return Symbol{}, errors.Newf(errors.ErrCodeInvalidSymbol, "%q is not a <contract>.<exchange> symbol, eg: IF2309.CFFEX", vtSymbol)
	}

	return Symbol{Code: m[1] + m[2], Product: m[1], Exchange: strings.ToUpper(m[3])}, nil
}

type document struct {
	Exchanges []Exchange `yaml:"exchanges"`
	Contracts []Contract `yaml:"contracts"`
}

// Table indexes contracts by exchange and product.
type Table struct {
	exchanges []Exchange
	contracts []Contract
	index     map[string]Contract
}

func key(exchange, product string) string {
	return strings.ToUpper(exchange) + "/" + strings.ToLower(product)
}

// Load parses a contract table. Every contract must name a listed exchange.
func Load(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse contract table", err)
	}

	known := make(map[string]bool, len(doc.Exchanges))
	for _, e := range doc.Exchanges {
		known[e.Code] = true
	}

	t := &Table{exchanges: doc.Exchanges, index: make(map[string]Contract, len(doc.Contracts))}

	for _, c := range doc.Contracts {
		if !known[c.Exchange] {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "contract %s names unknown exchange %s", c.Product, c.Exchange)
		}

		if c.Size <= 0 || c.PriceTick <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "contract %s.%s needs a positive size and price tick", c.Product, c.Exchange)
		}

		t.index[key(c.Exchange, c.Product)] = c
		t.contracts = append(t.contracts, c)
	}

	sort.SliceStable(t.contracts, func(i, j int) bool {
		if t.contracts[i].Exchange != t.contracts[j].Exchange {
			return t.contracts[i].Exchange < t.contracts[j].Exchange
		}

		return t.contracts[i].Product < t.contracts[j].Product
	})

	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultValue *Table
)

// Default returns the embedded table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(defaultTable)
		if err != nil {
			panic(err)
		}

		defaultValue = t
	})

	return defaultValue
}

// Exchanges lists the exchanges in table order.
func (t *Table) Exchanges() []Exchange {
	return append([]Exchange(nil), t.exchanges...)
}

// Contracts lists every contract sorted by exchange, then product.
func (t *Table) Contracts() []Contract {
	return append([]Contract(nil), t.contracts...)
}

// ExchangeContracts lists the contracts of one exchange.
func (t *Table) ExchangeContracts(exchange string) []Contract {
	var out []Contract

	for _, c := range t.contracts {
		if strings.EqualFold(c.Exchange, exchange) {
			out = append(out, c)
		}
	}

	return out
}

// Lookup resolves a vt_symbol to its contract specification.
func (t *Table) Lookup(vtSymbol string) (Symbol, Contract, error) {
	sym, err := ParseVtSymbol(vtSymbol)
	if err != nil {
		return Symbol{}, Contract{}, err
	}

	listed := false

	for _, e := range t.exchanges {
		if e.Code == sym.Exchange {
			listed = true

			break
		}
	}

	if !listed {
		return Symbol{}, Contract{}, errors.Newf(errors.ErrCodeInvalidExchange, "unknown exchange %s", sym.Exchange)
	}

	c, ok := t.index[key(sym.Exchange, sym.Product)]
	if !ok {
		return Symbol{}, Contract{}, errors.Newf(errors.ErrCodeInvalidSymbol, "product %s is not traded on %s", sym.Product, sym.Exchange)
	}

	return sym, c, nil
}

// Product finds a product by code on any exchange, ignoring case.
func (t *Table) Product(product string) (Contract, bool) {
	for _, c := range t.contracts {
		if strings.EqualFold(c.Product, product) {
			return c, true
		}
	}

	return Contract{}, false
}

// ExchangeByName finds an exchange by its code or its Chinese name.
func (t *Table) ExchangeByName(name string) (Exchange, bool) {
	name = strings.TrimSpace(name)

	for _, e := range t.exchanges {
		if strings.EqualFold(e.Code, name) || e.Name == name {
			return e, true
		}
	}

	return Exchange{}, false
}
