package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

type Db struct {
	DbConn *gorm.DB
	models map[string]any
	order  []string
}

// NewDb opens a shared in-memory SQLite database with the given tables. models
// maps table names to model pointers. order lists the tables parents first.
func NewDb(models map[string]any, order []string) *Db {
	once.Do(func() {
		db = open(models, order)
	})
	return db
}

func open(models map[string]any, order []string) *Db {
	dbSQL, err := sql.Open("sqlite", "file:goal_tracker?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: dbConn,
		models: models,
		order:  order,
	}

	if err := newDbMock.init(); err != nil {
		panic(fmt.Sprintf("failed to create tables. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB empties every table, children first.
func (d *Db) ClearDB() error {
	if err := d.reset(); err != nil {
		return err
	}
	return d.checkTables()
}

func (d *Db) init() error {
	for i := len(d.order) - 1; i >= 0; i-- {
		if err := d.DbConn.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", d.order[i])).Error; err != nil {
			return err
		}
	}

	if err := d.DbConn.AutoMigrate(d.modelList()...); err != nil {
		return err
	}

	return d.checkTables()
}

func (d *Db) reset() error {
	for i := len(d.order) - 1; i >= 0; i-- {
		model := d.models[d.order[i]]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", d.order[i], err)
		}

		err = d.DbConn.Exec("DELETE FROM sqlite_sequence WHERE name = ?", d.order[i]).Error
		if err != nil && !strings.Contains(err.Error(), "no such table: sqlite_sequence") {
			return err
		}
	}
	return nil
}

func (d *Db) checkTables() error {
	for _, model := range d.modelList() {
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
	}
	return nil
}

func (d *Db) modelList() []any {
	list := make([]any, 0, len(d.order))
	for _, table := range d.order {
		list = append(list, d.models[table])
	}
	return list
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
