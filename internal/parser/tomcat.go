package parser

// Tomcat AccessLogValve with a combined-style pattern, e.g. %h %u %t "%r" %s %b "%{Referer}i" "%{User-Agent}i":
// 127.0.0.1 admin [10/Oct/2000:13:55:36 -0700] "GET /manager/html HTTP/1.1" 200 4096 "-" "Mozilla/5.0"

const FormatTomcat = "Tomcat"

var tomcatGrammar = mustGrammar(FormatTomcat,
	`(?P<addr>\S+) (?P<user>\S+) \[(?P<time>.*?)\] "(?P<request>.*?)" (?P<status>\d+) (?P<bytes>\d+) "(?P<referer>.*?)" "(?P<agent>.*?)"`)
