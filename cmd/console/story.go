package main

import "fmt"

// storyIntro is the opening narration, shown at startup and on the
// "story" command.
func storyIntro(playerName string) string {
	return fmt.Sprintf(`%s, listen close.

Before grandma passed, she told you about a treasure locked away
somewhere in the house, and a small brass key she hid out in town
years ago so nobody could stumble onto both. She never said where.
"Ride around," she'd say with a wink. "You'll know it when you see it."

School's out, the weather is good, and your bike is waiting by the
porch. You've got some pocket money and fresh legs. Every block you
ride costs energy, and the rougher the road, the more it takes. When
your legs give out you can trade money for snacks and drinks to keep
going, but watch your pockets: the town has bullies, and they collect.

Find the key. Get home. Claim the treasure.`, playerName)
}
