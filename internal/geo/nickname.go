package geo

import "fmt"

var nicknameColors = []string{
	"Blue", "Lime", "Violet", "Golden", "Pink", "Teal", "Gray", "Red",
}

var nicknameAnimals = []string{
	"Fox", "Wolf", "Cat", "Tiger", "Raccoon", "Owl", "Panda", "Dolphin",
	"Lion", "Hare",
}

// Nickname derives a stable anonymous handle from a user id, e.g.
// "Teal Owl 417". The same uid always yields the same nickname, so room
// members stay recognizable across sessions without exposing identity.
func Nickname(uid string) string {
	var h uint32
	for i := 0; i < len(uid); i++ {
		h = h*31 + uint32(uid[i])
	}
	color := nicknameColors[h%uint32(len(nicknameColors))]
	animal := nicknameAnimals[(h>>8)%uint32(len(nicknameAnimals))]
	number := (h>>16)%900 + 100
	return fmt.Sprintf("%s %s %d", color, animal, number)
}
