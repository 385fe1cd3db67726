package kafka

import "fmt"

// TopicPrefix is the namespace prefix shared by all catalog topics.
const TopicPrefix = "catalog"

// Topic builds a fully qualified topic name from a domain and an action,
// e.g. Topic("product", "created") -> "catalog.product.created".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
