package xmlsearch

// XPathLiteral exports xpathLiteral for testing
var XPathLiteral = xpathLiteral
