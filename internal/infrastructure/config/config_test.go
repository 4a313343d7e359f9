package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:      "127.0.0.1",
		Port:      3306,
		User:      "mall",
		Password:  "secret",
		DBName:    "happymall",
		Charset:   "utf8mb4",
		ParseTime: true,
		Loc:       "Asia/Shanghai",
	}

	dsn := cfg.DSN()
	assert.Equal(t,
		"mall:secret@tcp(127.0.0.1:3306)/happymall?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai&clientFoundRows=true",
		dsn)

	// 仓储用RowsAffected判断记录是否存在，同值UPDATE不能返回0行
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080, Mode: "debug", NodeID: 0},
			JWT:    JWTConfig{Secret: "test-secret"},
		}
	}

	t.Run("合法配置通过", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("端口越界", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 70000
		assert.Error(t, validate(cfg))
	})

	t.Run("节点ID越界", func(t *testing.T) {
		cfg := base()
		cfg.Server.NodeID = 1024
		assert.Error(t, validate(cfg))
	})

	t.Run("生产环境缺支付宝公钥", func(t *testing.T) {
		cfg := base()
		cfg.Server.Mode = "release"
		assert.Error(t, validate(cfg))
	})
}
