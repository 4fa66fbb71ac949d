package catalog

// DefaultSite is the built-in site configuration.
var DefaultSite = Site{
	Title:    "个人博客",
	Subtitle: "留学·语言·AI·工作·海外生活",
	SocialLinks: []SocialLink{
		{Name: "GitHub", URL: "https://github.com/MaRiddleH"},
		{Name: "Twitter", URL: "https://twitter.com"},
		{Name: "LinkedIn", URL: "https://linkedin.com"},
	},
	Nav: []NavLink{
		{Label: "首页", Href: "/"},
		{Label: "关于", Href: "/about.html"},
	},
	About: "你好，欢迎来到我的博客。\n\n这里记录留学、语言学习、AI、工作和海外生活中的点滴。",
}

// DefaultPosts is the built-in post list, in catalog order.
var DefaultPosts = []Post{
	{
		ID:          "first-post",
		Title:       "第一篇博客",
		Date:        "2026-02-10",
		Category:    "生活",
		Tags:        []string{"博客", "起点"},
		Excerpt:     "最近打算重新写博客，希望给自己永远留下一块自留地。",
		ContentPath: "posts/first-post.md",
	},
	{
		ID:          "ai-learning-notes-2026",
		Title:       "2026年AI学习笔记",
		Date:        "2026-02-05",
		Category:    "AI",
		Tags:        []string{"AI", "学习笔记"},
		Excerpt:     "记录这一年学习AI的路线、资料和踩过的坑。",
		ContentPath: "posts/ai-learning-notes-2026.md",
	},
	{
		ID:          "study-abroad-experience",
		Title:       "我的留学经历分享",
		Date:        "2026-01-20",
		Category:    "留学",
		Tags:        []string{"留学", "经验"},
		Excerpt:     "分享我在海外留学的点点滴滴和心得体会。",
		ContentPath: "posts/study-abroad-experience.md",
	},
}

// Default returns a Catalog of the built-in site and posts.
func Default() *Catalog {
	return MustNew(DefaultSite, DefaultPosts)
}
