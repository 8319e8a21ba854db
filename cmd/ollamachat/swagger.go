//go:build swagger

package main

import _ "ollamachat/docs"
