/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"database/sql"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fintrack/fintrack/config"
)

// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

const connectRetries = 5

// newConnectBackOff is swapped in tests to avoid real waits.
var newConnectBackOff = func() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries)
}

// Datasource is the Postgres implementation of IDataSource.
type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, errors.New("database connection failed on an earlier attempt")
	}
	return instance, nil
}

// ConnectDB opens a Postgres pool and waits for it to answer a ping, retrying with exponential
// backoff while the server comes up. Schema changes are applied separately by `fintrack migrate`.
func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}

	if err := pingWithRetry(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func pingWithRetry(db *sql.DB) error {
	notify := func(err error, wait time.Duration) {
		logrus.WithError(err).Warnf("database not reachable, retrying in %s", wait)
	}
	if err := backoff.RetryNotify(db.Ping, newConnectBackOff(), notify); err != nil {
		logrus.WithError(err).Error("database connection error ❌")
		return errors.Wrap(err, "pinging postgres")
	}
	return nil
}
