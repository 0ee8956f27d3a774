// Package config 提供引擎的 YAML 配置加载，以及配置驱动的 Node 注册表。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是引擎配置文件的结构。所有字段都有默认值，缺省即可运行。
type Config struct {
	Genome struct {
		Dim            int `yaml:"dim"`              // 基因向量维度，默认 128
		MaxFeatures    int `yaml:"max_features"`     // 词表上限，默认 8000
		MinDF          int `yaml:"min_df"`           // 最小文档频次，默认 3
		MaxReviewTexts int `yaml:"max_review_texts"` // 每商品聚合评论条数，默认 30
	} `yaml:"genome"`

	Collab struct {
		Factors        int `yaml:"factors"`          // 潜因子数，默认 64
		MinUserRatings int `yaml:"min_user_ratings"` // 用户最少评分数，默认 1
	} `yaml:"collab"`

	Compat struct {
		PriceLowMax float64 `yaml:"price_low_max"` // 低价档上界，默认 20
		PriceMidMax float64 `yaml:"price_mid_max"` // 中价档上界，默认 100
	} `yaml:"compat"`

	Query struct {
		TopK       int        `yaml:"top_k"`       // 默认 10
		Weights    [3]float64 `yaml:"weights"`     // content/cf/compat，默认 0.45/0.35/0.20
		MMRLambda  float64    `yaml:"mmr_lambda"`  // 默认 0.7
		FilterExpr string     `yaml:"filter_expr"` // 候选保留条件（CEL），默认不过滤
	} `yaml:"query"`

	Store struct {
		Backend string `yaml:"backend"` // memory / redis，默认 memory
		Addr    string `yaml:"addr"`    // redis 地址
		DB      int    `yaml:"db"`      // redis 库号
	} `yaml:"store"`
}

// Load 从 YAML 文件加载配置。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
