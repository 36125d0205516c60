package main

import (
	"github.com/crucial707/blogspace/cmd/cli/auth"
	"github.com/crucial707/blogspace/cmd/cli/blogs"
	"github.com/crucial707/blogspace/cmd/cli/posts"
	"github.com/crucial707/blogspace/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	blogs.InitBlogs(rootCmd)
	posts.InitPosts(rootCmd)

	root.Execute()
}
