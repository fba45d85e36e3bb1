package runtime

import (
	"strings"
	"unicode/utf8"
)

// Logo is shown above the welcome banner.
const Logo = `
 _  __                                 _   ____                            _
| |/ /__ _ _ __ ___   __ _ _ __   __| | |  _ \ _ __ ___  _ __ ___  _ __ | |_
| ' // _` + "`" + ` | '_ ` + "`" + ` _ \ / _` + "`" + ` | '_ \ / _` + "`" + ` | | |_) | '__/ _ \| '_ ` + "`" + ` _ \| '_ \| __|
| . \ (_| | | | | | | (_| | | | | (_| | |  __/| | | (_) | | | | | | |_) | |_
|_|\_\__,_|_| |_| |_|\__,_|_| |_|\__,_| |_|   |_|  \___/|_| |_| |_| .__/ \__|
                                                                  |_|
`

// WelcomeMessage seeds a fresh transcript.
const WelcomeMessage = `
Welcome to Kamand Prompt Terminal
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

Type 'help'
`

// DefaultCowText is used by cowsay with no arguments.
const DefaultCowText = "Moo! Join Kamand Prompt!"

// Cow renders text in a speech bubble above the cow. Border width is the
// text length in runes plus two.
func Cow(text string) string {
	n := utf8.RuneCountInString(text) + 2
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(strings.Repeat("_", n))
	b.WriteString("\n < ")
	b.WriteString(text)
	b.WriteString(" >\n  ")
	b.WriteString(strings.Repeat("-", n))
	b.WriteString(`
        \   ^__^
         \  (oo)\_______
            (__)\       )\/\
                ||----w |
                ||     ||
`)
	return b.String()
}

const fastfetchArt = `
       .---.        pc@students.iitmandi.ac.in
      /     \       ----------------------
      \.@-@./       OS: KamandPrompt
      /` + "`" + `\_/` + "`" + `\       Host: Programming Club IIT Mandi
     //  _  \\      Kernel: Kamand kernel
    | \     )|_     Uptime: Since 2014
   /` + "`" + `\_` + "`" + `>  <_/ \    Shell: Kamand shell
   \__/'---'\__/    Terminal: Kamand Prompt
`

const matrixText = `
⠀⠀⠀⠀⠀⠀⢀⣤⣶⣿⣿⣿⣿⣿⣿⣿⣿⣿⣿⣶⣤⡀⠀⠀⠀⠀⠀⠀
Wake up, Neo...
The Matrix has you...
Follow the white rabbit.

01001011 01100001 01101101 01100001 01101110 01100100
01010000 01110010 01101111 01101101 01110000 01110100

Knock, knock, Neo.
`

const aboutText = `
┌─────────────────────────────────────────────┐
│           KAMAND PROMPT                     │
│     The Programming Club @ IIT Mandi        │
├─────────────────────────────────────────────┤
│                                             │
│  We are a community of passionate coders,   │
│  innovators, and tech enthusiasts.          │
│                                             │
│  Mission: Foster coding culture             │
│  Est: 2014                                  │
│  Home: IIT Mandi, Kamand Campus             │
│  Members: 50+                               │
│                                             │
│  We organize workshops, hackathons,         │
│  coding competitions, and contribute        │
│  to open source projects.                   │
│                                             │
└─────────────────────────────────────────────┘
`

const contactText = `
CONTACT US
━━━━━━━━━━━━━

Email: pc@students.iitmandi.ac.in
Phone: +91 94185 39191
Location: IIT Mandi, Kamand, HP

Online:
   └─ Website: https://pc.iitmandi.co.in/

Type 'socials' to see our social links!
`

const socialsText = `
FOLLOW US
━━━━━━━━━━━━

Instagram: @kamandprompt
   └─ instagram.com/kamandprompt

LinkedIn: Programming Club IIT Mandi
   └─ www.linkedin.com/company/programming-club-iit-mandi/

GitHub: KamandPrompt
   └─ github.com/KamandPrompt

Join our community! Type 'join' to learn how.
`

const skillsText = `
TECH STACK WE USE
━━━━━━━━━━━━━━━━━━━━

Frontend:
  > React, Next.js, Vue
  > Tailwind CSS, Framer Motion

Backend:
  > Node.js, Express
  > Python, FastAPI, Django
  > Java, Spring Boot

Mobile:
  > React Native, Flutter

AI/ML:
  > PyTorch, TensorFlow
  > Hugging Face, LangChain

DevOps:
  > Docker, Kubernetes
  > AWS, GCP, Azure
`

const joinText = `
JOIN KAMAND PROMPT!
━━━━━━━━━━━━━━━━━━━━━━

Eligibility:
  ✓ IIT Mandi student
  ✓ Passion for coding
  ✓ Willingness to learn
  ✓ Sophomore

How to join:
  1. Follow us on Instagram @kamandprompt
  2. Attend our sessions and events
  3. Contribute to our projects
  4. Participate in recruitment

We recruit at the start of each year.

Follow: instagram.com/kamandprompt
Query: pc@students.iitmandi.ac.in
`

const sudoDenied = `Password: ********
Sorry, user is not in the sudoers file. This incident will be reported.`

const rmDenied = `System protected !
Permission denied: Cannot delete the KPverse.

Maybe try 'help' instead?`
