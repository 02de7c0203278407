package dao

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/fileurl"
	"github.com/haierkeys/versioned-notes-service/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置（由 cmd 层从 AppConfig 转换注入）
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

type Dao struct {
	db     *gorm.DB
	ctx    context.Context
	logger *zap.Logger
}

func New(db *gorm.DB, ctx context.Context) *Dao {
	return &Dao{db: db, ctx: ctx, logger: zap.NewNop()}
}

// NewWithLogger 创建带日志的 Dao 实例
func NewWithLogger(db *gorm.DB, ctx context.Context, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, ctx: ctx, logger: lg}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

// SupportsRowLock 数据库是否支持 SELECT ... FOR UPDATE 行锁
// sqlite 不支持行锁，由上层按笔记串行化写入
func (d *Dao) SupportsRowLock() bool {
	return d.db.Dialector.Name() != "sqlite"
}

// Transaction 在事务中执行 fn，fn 内通过 tx Dao 访问数据库
func (d *Dao) Transaction(fn func(tx *Dao) error) error {
	return d.db.WithContext(d.ctx).Transaction(func(txDb *gorm.DB) error {
		return fn(&Dao{db: txDb, ctx: d.ctx, logger: d.logger})
	})
}

// NewDBEngineWithConfig initializes the GORM engine (using injected config)
// NewDBEngineWithConfig 初始化 GORM 引擎（使用注入的配置）
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {

	dialector := userDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	} else {
		db.Config.Logger = logger.Default.LogMode(logger.Silent)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 零值沿用 database/sql 的默认池参数
	// 闲置数为 0 会在共享内存 sqlite 上关掉唯一连接导致库被回收
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}

	if lifetime, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Minute * 30)
	}
	if idleTime, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && idleTime > 0 {
		sqlDB.SetConnMaxIdleTime(idleTime)
	}

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, err
		}
	}

	if lg != nil {
		lg.Info("database engine initialized",
			zap.String("type", c.Type),
			zap.Bool("autoMigrate", c.AutoMigrate))
	}

	return db, nil
}

func userDialector(c DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Local",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
		))
	case "sqlite":
		if !strings.Contains(c.Path, ":memory:") && !strings.Contains(c.Path, "mode=memory") && !fileurl.IsExist(c.Path) {
			fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
