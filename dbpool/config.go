/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package dbpool implements a bounded pool of lazily-opened GORM database
// connectors, dispatched through a workerpool.Pool so the driver's
// per-goroutine setup (registered via OnStart/OnStop hooks) runs exactly
// once per worker rather than once per query.
package dbpool

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	"github.com/nabbar/ant-golib/duration"
	liberr "github.com/nabbar/ant-golib/errors"
)

// Config describes one pool of connectors to a single DSN.
type Config struct {
	// Driver selects the gorm.io dialector. Required.
	Driver Driver `json:"driver" yaml:"driver" toml:"driver" mapstructure:"driver" validate:"required"`

	// Name identifies this pool for logging/monitoring.
	Name string `json:"name" yaml:"name" toml:"name" mapstructure:"name"`

	// DSN is the driver-specific connection string. Required.
	DSN string `json:"dsn" yaml:"dsn" toml:"dsn" mapstructure:"dsn" validate:"required"`

	// PoolSize is the number of *Connector instances held by the pool.
	// Defaults to 1 if ≤ 0.
	PoolSize int `json:"pool-size" yaml:"pool-size" toml:"pool-size" mapstructure:"pool-size"`

	// Workers is the number of workerpool goroutines dispatching
	// Acquire/Execute/Release cycles. Defaults to PoolSize if ≤ 0.
	Workers int `json:"workers" yaml:"workers" toml:"workers" mapstructure:"workers"`

	// AcquireTimeout bounds how long Acquire waits for a free connector
	// when the caller's context carries no deadline of its own. Zero
	// means wait indefinitely (bounded only by ctx). Accepts the extended
	// "5d23h15m13s" notation on top of plain Go duration strings.
	AcquireTimeout duration.Duration `json:"acquire-timeout" yaml:"acquire-timeout" toml:"acquire-timeout" mapstructure:"acquire-timeout"`

	// SkipDefaultTransaction disables GORM's default single-statement
	// transaction wrapping.
	SkipDefaultTransaction bool `json:"skip-default-transaction" yaml:"skip-default-transaction" toml:"skip-default-transaction" mapstructure:"skip-default-transaction"`

	// PrepareStmt caches prepared statements per *gorm.DB session.
	PrepareStmt bool `json:"prepare-stmt" yaml:"prepare-stmt" toml:"prepare-stmt" mapstructure:"prepare-stmt"`

	// PoolMaxIdleConns, PoolMaxOpenConns and PoolConnMaxLifetime
	// configure the database/sql pool underlying each *gorm.DB. Applied
	// per Connector, not pool-wide.
	PoolMaxIdleConns    int               `json:"pool-max-idle-conns" yaml:"pool-max-idle-conns" toml:"pool-max-idle-conns" mapstructure:"pool-max-idle-conns"`
	PoolMaxOpenConns    int               `json:"pool-max-open-conns" yaml:"pool-max-open-conns" toml:"pool-max-open-conns" mapstructure:"pool-max-open-conns"`
	PoolConnMaxLifetime duration.Duration `json:"pool-conn-max-lifetime" yaml:"pool-conn-max-lifetime" toml:"pool-conn-max-lifetime" mapstructure:"pool-conn-max-lifetime"`
}

// Validate checks the struct tags above via go-playground/validator,
// collapsing every violation into a single liberr.Error chain.
func (c *Config) Validate() liberr.Error {
	e := ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		} else {
			for _, er := range err.(libval.ValidationErrors) {
				e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
			}
		}
	}

	if c.Driver != DriverNone && c.Driver.Dialector("x") == nil {
		e.Add(fmt.Errorf("unknown driver %q", c.Driver))
	}

	if !e.HasParent() {
		return nil
	}
	return e
}

func (c *Config) poolSize() int {
	if c.PoolSize <= 0 {
		return 1
	}
	return c.PoolSize
}

func (c *Config) workers() int {
	if c.Workers <= 0 {
		return c.poolSize()
	}
	return c.Workers
}
