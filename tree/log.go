package tree

import "github.com/sirupsen/logrus"

// Logger receives LENIENT-mode diagnostics: conditions that are not
// errors (STRICT turns the same condition into one instead) but that a
// caller debugging a feed may want visibility into — an anonymous node
// created for an unknown name. A value outside its data type's
// constraints is accepted at Lenient level without a log entry.
// Nothing is ever logged at Strict level, since those paths return an
// error instead of reaching
// here. Defaults to logrus.StandardLogger(); callers that want this
// library's diagnostics isolated from their own logger's output can
// replace it wholesale.
var Logger = logrus.StandardLogger()
