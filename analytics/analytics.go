// Package analytics classifies page views for the blog's view counters.
// Nothing about a visitor is stored; only coarse labels are derived from
// the User-Agent and Referer headers.
package analytics

import (
	"net/url"
	"strings"
)

// Visit is the classification of one page view.
type Visit struct {
	Bot     bool
	BotName string // "" for humans
	Browser string
	OS      string
	Device  string // Desktop, Mobile, Tablet or Bot
	Source  string // Direct, Internal, a search engine or Other
}

// Client is the label a view counter uses for the visitor: the bot name for
// crawlers and feed readers, "human" otherwise.
func (v Visit) Client() string {
	if v.Bot {
		return v.BotName
	}
	return "human"
}

// rule maps any of its lower-case markers to label. Rule tables are checked
// in order and the first rule with a matching marker wins.
type rule struct {
	label   string
	markers []string
}

func match(ua string, rules []rule, fallback string) string {
	for _, r := range rules {
		for _, m := range r.markers {
			if strings.Contains(ua, m) {
				return r.label
			}
		}
	}
	return fallback
}

var (
	// Edge and Opera UAs also carry "chrome"; Chrome UAs carry "safari".
	browsers = []rule{
		{"Firefox", []string{"firefox", "fxios"}},
		{"Opera", []string{"opera", "opr/"}},
		{"Edge", []string{"edg"}},
		{"Chrome", []string{"chrome", "crios"}},
		{"Safari", []string{"safari"}},
	}
	// iOS UAs say "like mac os x"; Android UAs say "linux".
	systems = []rule{
		{"Windows", []string{"windows"}},
		{"Android", []string{"android"}},
		{"iOS", []string{"iphone", "ipad", "ipod"}},
		{"macOS", []string{"macintosh", "mac os"}},
		{"Linux", []string{"linux"}},
	}
	// iPad UAs carry "mobile".
	devices = []rule{
		{"Tablet", []string{"tablet", "ipad"}},
		{"Mobile", []string{"mobile"}},
	}
	// Named crawlers first, then the generic markers.
	bots = []rule{
		{"Googlebot", []string{"googlebot"}},
		{"Bingbot", []string{"bingbot"}},
		{"Yandex", []string{"yandex"}},
		{"Baidu", []string{"baiduspider", "baidu"}},
		{"DuckDuckBot", []string{"duckduckbot"}},
		{"Facebook", []string{"facebookexternalhit"}},
		{"Twitterbot", []string{"twitterbot"}},
		{"LinkedIn", []string{"linkedinbot"}},
		{"Ahrefs", []string{"ahrefsbot"}},
		{"SEMrush", []string{"semrushbot"}},
		{"Majestic", []string{"mj12bot"}},
		{"Moz", []string{"dotbot"}},
		{"Yahoo Slurp", []string{"slurp"}},
		{"Feed Reader", []string{"feedfetcher", "feedly", "rss"}},
		{"Generic Crawler", []string{"crawl", "scrape"}},
		{"Generic Spider", []string{"spider"}},
		{"Other Bot", []string{"bot"}},
	}
)

// Classify derives a Visit from the request headers. siteHost is the
// blog's own host, used to recognise internal navigation.
func Classify(userAgent, referrer, siteHost string) Visit {
	v := Visit{Source: ReferrerSource(referrer, siteHost)}
	if name := ExtractBotName(userAgent); name != "" {
		v.Bot, v.BotName = true, name
		v.Browser, v.OS, v.Device = "Other", "Other", "Bot"
		return v
	}
	v.Browser, v.OS, v.Device = ParseUserAgent(userAgent)
	return v
}

// ParseUserAgent reports the browser, OS and device class of a human
// visitor's User-Agent. Unknown values are "Other"; the device defaults to
// Desktop.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)
	return match(ua, browsers, "Other"), match(ua, systems, "Other"), match(ua, devices, "Desktop")
}

// IsBot reports whether ua looks like a crawler or feed reader.
func IsBot(ua string) bool {
	return ExtractBotName(ua) != ""
}

// ExtractBotName names the crawler or feed reader behind ua, or returns ""
// for a browser.
func ExtractBotName(ua string) string {
	return match(strings.ToLower(ua), bots, "")
}

var searchEngines = []rule{
	{"Google", []string{"google."}},
	{"Bing", []string{"bing."}},
	{"DuckDuckGo", []string{"duckduckgo."}},
	{"Yahoo", []string{"yahoo."}},
	{"Baidu", []string{"baidu."}},
	{"GitHub", []string{"github."}},
}

// ReferrerSource buckets a Referer header into a small set of sources.
func ReferrerSource(ref, siteHost string) string {
	if ref == "" {
		return "Direct"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return "Other"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if siteHost != "" && host == strings.TrimPrefix(strings.ToLower(siteHost), "www.") {
		return "Internal"
	}
	return match(host, searchEngines, "Other")
}
