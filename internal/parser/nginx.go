package parser

// Nginx combined log format example:
// 127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 2326 "-" "UserAgent"
//
// The ident and user positions must both be a literal "-"; the user is not captured.

const FormatNginx = "Nginx"

var nginxGrammar = mustGrammar(FormatNginx,
	`(?P<addr>\S+) - - \[(?P<time>.*?)\] "(?P<request>.*?)" (?P<status>\d+) (?P<bytes>\d+) "(?P<referer>.*?)" "(?P<agent>.*?)"`)
