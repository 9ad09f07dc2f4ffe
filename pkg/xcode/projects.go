// Package xcode locates Xcode projects on disk.
package xcode

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/mitchellh/go-homedir"
)

const DefaultProjectPattern = "**/*.xcodeproj"

// FindPaths returns the paths matching pattern, sorted. Relative patterns are
// resolved against the working directory and may use "**" to match any number
// of directories. A pattern naming an existing path is returned as is.
// Paths inside CocoaPods' "Pods" directories are skipped.
func FindPaths(pattern string) ([]string, error) {
	expanded, err := homedir.Expand(pattern)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err == nil {
		return []string{filepath.Clean(expanded)}, nil
	}

	matches, err := doublestar.FilepathGlob(expanded)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, match := range matches {
		if inPods(match) {
			continue
		}
		result = append(result, match)
	}
	sort.Strings(result)
	return result, nil
}

func inPods(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "Pods" {
			return true
		}
	}
	return false
}

// IgnoreFilter drops paths that the enclosing git repository ignores.
type IgnoreFilter struct {
	root    string
	matcher gitignore.Matcher
}

// NewIgnoreFilter reads the .gitignore files of the repository containing
// directory. Outside of a repository nothing is ignored.
func NewIgnoreFilter(directory string) (*IgnoreFilter, error) {
	absolute, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}
	repository, err := git.PlainOpenWithOptions(
		absolute, &git.PlainOpenOptions{DetectDotGit: true},
	)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return &IgnoreFilter{}, nil
	}
	if err != nil {
		return nil, err
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return nil, err
	}
	root := worktree.Filesystem.Root()
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	return &IgnoreFilter{root: root, matcher: gitignore.NewMatcher(patterns)}, nil
}

func (f *IgnoreFilter) IsIgnored(path string) bool {
	if f.matcher == nil {
		return false
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	relative, err := filepath.Rel(f.root, absolute)
	if err != nil || strings.HasPrefix(relative, "..") {
		return false
	}
	info, err := os.Stat(absolute)
	isDir := err == nil && info.IsDir()
	return f.matcher.Match(strings.Split(filepath.ToSlash(relative), "/"), isDir)
}

func (f *IgnoreFilter) Filter(paths []string) []string {
	var result []string
	for _, path := range paths {
		if !f.IsIgnored(path) {
			result = append(result, path)
		}
	}
	return result
}
