package main

// 媒体目录清理脚本（运维用）
// 说明：新闻入库失败时文件会被即时回收，但历史版本可能遗留孤儿文件。
// 本脚本比对 news.images 与媒体目录，删除未被任何新闻引用的文件。
// 执行前请先以 -dry-run 演练确认输出。

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"

	"newsroom/internal/config"
)

func main() {
	var dsn string
	var root string
	var dryRun bool
	// 默认 DSN 仅用于本地开发，生产请显式传入 -dsn
	flag.StringVar(&dsn, "dsn", "", "MySQL DSN (默认取 config.yaml 中的 mysql 配置)")
	flag.StringVar(&root, "root", "", "媒体根目录 (默认取 config.yaml 中的 media.root)")
	flag.BoolVar(&dryRun, "dry-run", true, "仅打印将被删除的文件，不实际删除")
	flag.Parse()

	cfg := config.Load()
	if dsn == "" {
		dsn = cfg.MySQL.DSN()
	}
	if root == "" {
		root = cfg.Media.Root
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer db.Close()

	referenced, err := referencedPaths(db)
	if err != nil {
		log.Fatalf("collect referenced paths: %v", err)
	}
	log.Printf("referenced files: %d", len(referenced))

	var removed, kept int
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		// 入库路径以媒体根目录为前缀
		if referenced[filepath.ToSlash(filepath.Join(root, rel))] || referenced[filepath.ToSlash(rel)] {
			kept++
			return nil
		}
		removed++
		if dryRun {
			fmt.Printf("would remove: %s\n", path)
			return nil
		}
		return os.Remove(path)
	})
	if err != nil {
		log.Fatalf("walk media root: %v", err)
	}
	log.Printf("done: kept=%d orphaned=%d dry_run=%v", kept, removed, dryRun)
}

// referencedPaths 展开所有 news.images JSON 列表为一个路径集合。
func referencedPaths(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT images FROM news WHERE images IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if !raw.Valid || raw.String == "" {
			continue
		}
		var paths []string
		if err := json.Unmarshal([]byte(raw.String), &paths); err != nil {
			// 异常记录跳过，不中断整体清理
			log.Printf("skip malformed images value: %v", err)
			continue
		}
		for _, p := range paths {
			out[filepath.ToSlash(p)] = true
		}
	}
	return out, rows.Err()
}
