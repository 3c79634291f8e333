package parser

// IIS log example (NCSA-style export):
// 10.0.0.7 W3SVC1 10.0.0.1 [10/Oct/2000:13:55:36 -0700] "GET /default.aspx HTTP/1.1" 200 512 "-" "Mozilla/5.0"
//
// Positions two and three are matched but not stored.

const FormatIIS = "IIS"

var iisGrammar = mustGrammar(FormatIIS,
	`(?P<addr>\S+) (\S+) (\S+) \[(?P<time>.*?)\] "(?P<request>.*?)" (?P<status>\d+) (?P<bytes>\d+) "(?P<referer>.*?)" "(?P<agent>.*?)"`)
