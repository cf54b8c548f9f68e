package catalog

import (
	"fmt"
	"sync/atomic"

	textcensor "github.com/kai1987/go-text-censor"
)

// 匹配时忽略的标点
const defaultPunctuation = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~，。？；：”’￥（）——、！……"

var wordsLoaded atomic.Bool

// LoadWordList 加载敏感词（全局，进程内只需一次）
func LoadWordList(path string) error {
	if err := textcensor.InitWordsByPath(path, false); err != nil {
		return fmt.Errorf("catalog: load word list: %w", err)
	}
	textcensor.SetPunctuation(defaultPunctuation)
	wordsLoaded.Store(true)
	return nil
}

// FilterText 将敏感词替换为 '*'；未加载词表时原样返回
func FilterText(s string) string {
	if !wordsLoaded.Load() {
		return s
	}
	if _, replaced := textcensor.CheckAndReplace(s, true, '*'); replaced != "" {
		return replaced
	}
	return s
}
