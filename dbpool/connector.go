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

package dbpool

import (
	"sync"

	gormdb "gorm.io/gorm"
)

// Connector wraps one *gorm.DB session, opened lazily on first use so that
// constructing a Pool never itself dials the database.
type Connector struct {
	cfg *Config

	mu sync.Mutex
	db *gormdb.DB
}

func newConnector(cfg *Config) *Connector {
	return &Connector{cfg: cfg}
}

// open returns the underlying *gorm.DB, dialling it on the first call.
func (c *Connector) open() (*gormdb.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	db, err := gormdb.Open(c.cfg.Driver.Dialector(c.cfg.DSN), &gormdb.Config{
		SkipDefaultTransaction: c.cfg.SkipDefaultTransaction,
		PrepareStmt:            c.cfg.PrepareStmt,
	})
	if err != nil {
		return nil, ErrorDatabaseOpen.Error(err)
	}

	if c.cfg.PoolMaxIdleConns > 0 || c.cfg.PoolMaxOpenConns > 0 || c.cfg.PoolConnMaxLifetime > 0 {
		sqlDB, e := db.DB()
		if e != nil {
			return nil, ErrorDatabaseOpenPool.Error(e)
		}
		if c.cfg.PoolMaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.cfg.PoolMaxIdleConns)
		}
		if c.cfg.PoolMaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.cfg.PoolMaxOpenConns)
		}
		if c.cfg.PoolConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(c.cfg.PoolConnMaxLifetime.Time())
		}
	}

	c.db = db
	return c.db, nil
}

// DB returns the currently open *gorm.DB, or nil if this Connector has
// never been opened.
func (c *Connector) DB() *gormdb.DB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db
}

// Ping verifies the underlying connection is alive, opening it first if
// necessary.
func (c *Connector) Ping() error {
	db, err := c.open()
	if err != nil {
		return err
	}
	sqlDB, e := db.DB()
	if e != nil {
		return ErrorDatabaseOpenPool.Error(e)
	}
	return sqlDB.Ping()
}

// Close releases the underlying connection, if one was ever opened. Safe
// to call multiple times and safe to call on a never-opened Connector.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	c.db = nil
	if err != nil {
		return ErrorDatabaseOpenPool.Error(err)
	}
	return sqlDB.Close()
}
